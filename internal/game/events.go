package game

import "four-hundred-game/internal/shared"

// Event is a typed domain event emitted by the engine after a settled
// state transition.
type Event interface {
	eventName() string
}

// EventSink receives engine events. Sinks are invoked while the engine
// lock is held and must not call back into mutating engine methods;
// hand work off to a channel instead (the hub does exactly that).
type EventSink func(Event)

// CardsDealt fires when a round starts and all hands are dealt.
type CardsDealt struct {
	RoundNumber int
	DealerIndex int
}

// CardPlayed fires after a legal play lands on the table.
type CardPlayed struct {
	PlayerID string
	Card     shared.Card
}

// TrickFinished fires when a trick resolves to a winner.
type TrickFinished struct {
	WinnerID    string
	TrickNumber int
	Cards       []shared.Card
}

// RoundFinished fires after scoring, with the immutable round record.
type RoundFinished struct {
	Result RoundResult
}

// GameFinished fires when a team crosses the win threshold.
type GameFinished struct {
	WinnerTeam int
}

func (CardsDealt) eventName() string    { return "cards_dealt" }
func (CardPlayed) eventName() string    { return "card_played" }
func (TrickFinished) eventName() string { return "trick_finished" }
func (RoundFinished) eventName() string { return "round_finished" }
func (GameFinished) eventName() string  { return "game_finished" }
