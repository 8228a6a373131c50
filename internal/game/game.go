package game

import (
	"fmt"
	"log"
	"sync"

	"four-hundred-game/internal/ai"
	"four-hundred-game/internal/protocol"
	"four-hundred-game/internal/shared"

	"github.com/google/uuid"
)

// Phase represents the state-machine phase of a match.
type Phase string

const (
	WaitingForPlayers Phase = "WAITING_FOR_PLAYERS"
	Bidding           Phase = "BIDDING"
	Playing           Phase = "PLAYING"
	RoundEnd          Phase = "ROUND_END"
	GameOver          Phase = "GAME_OVER"
)

const (
	// NumPlayers is fixed: 400 is a four-player partnership game.
	NumPlayers = 4
	// CardsPerPlayer empties the 52-card deck exactly across four hands.
	CardsPerPlayer = 13
	// MaxBid is the capot bid.
	MaxBid = 13
	// DefaultWinThreshold ends the match once a partnership reaches it.
	DefaultWinThreshold = 41
)

// MinBidForScore returns the minimum legal bid for a player's cumulative
// score: the further ahead a player is, the more they must commit.
func MinBidForScore(score int) int {
	switch {
	case score < 30:
		return 2
	case score < 40:
		return 3
	default:
		return 4
	}
}

// RoundResult is the immutable record of one finished round: team number
// to summed cumulative team score after scoring.
type RoundResult struct {
	RoundNumber int
	TeamScores  map[int]int
}

// Options parameterizes a match.
type Options struct {
	// WinThreshold is the target score; 0 means DefaultWinThreshold.
	WinThreshold int
	// Networked matches start in WaitingForPlayers and need an explicit
	// Start once all seats are attached; local matches begin bidding
	// immediately.
	Networked bool
	// Tuning overrides the AI calibration; zero value means defaults.
	Tuning *ai.Tuning
}

// Game is the authoritative rules engine for one 400 match. All mutating
// methods are guarded by a mutex; networked deployments additionally
// funnel every intent through the hub's single loop, so state
// transitions are strictly linear and snapshots always reflect a fully
// settled state.
type Game struct {
	ID                 string
	Players            [NumPlayers]*shared.Player
	Teams              [2]*shared.Team
	Deck               *shared.Deck
	CurrentTrick       *shared.Trick
	CurrentPlayerIndex int
	DealerIndex        int
	RoundNumber        int
	TrickNumber        int
	Phase              Phase
	WinThreshold       int
	WinnerTeam         int
	History            []RoundResult
	Memory             *ai.Memory

	tuning    ai.Tuning
	corrupted bool
	sink      EventSink
	mu        sync.Mutex
}

// NewGame initializes a match over four seated players. Seats 0 and 2
// form team 1, seats 1 and 3 team 2. Local matches (Networked false)
// start their first round immediately and open in Bidding.
func NewGame(players [NumPlayers]*shared.Player, opts Options) *Game {
	threshold := opts.WinThreshold
	if threshold == 0 {
		threshold = DefaultWinThreshold
	}
	tuning := ai.DefaultTuning
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}

	g := &Game{
		ID: uuid.NewString(),
		Teams: [2]*shared.Team{
			shared.NewTeam(shared.Team1, players[0], players[2]),
			shared.NewTeam(shared.Team2, players[1], players[3]),
		},
		Players:      players,
		Deck:         shared.NewDeck(),
		CurrentTrick: shared.NewTrick(),
		DealerIndex:  -1,
		Phase:        WaitingForPlayers,
		WinThreshold: threshold,
		Memory:       ai.NewMemory(),
		tuning:       tuning,
	}

	if !opts.Networked {
		g.startRound()
	}
	return g
}

// SetEventSink installs the observer receiving typed domain events.
func (g *Game) SetEventSink(sink EventSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sink = sink
}

func (g *Game) emit(ev Event) {
	if g.sink != nil {
		g.sink(ev)
	}
}

// Start begins the first round of a networked match once every seat is
// attached.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != WaitingForPlayers {
		return fmt.Errorf("%w: match already started", ErrWrongPhase)
	}
	g.startRound()
	return nil
}

// startRound resets per-round state, rotates the dealer, deals 13 cards
// to each seat, and opens bidding with the seat after the dealer.
// Assumes the lock is held.
func (g *Game) startRound() {
	g.Deck.Reset()
	g.Memory.Reset()
	g.DealerIndex = (g.DealerIndex + 1) % NumPlayers
	g.RoundNumber++
	g.TrickNumber = 0
	g.CurrentTrick.Clear()

	for _, p := range g.Players {
		p.ResetForRound()
		p.AddCards(g.Deck.DrawMany(CardsPerPlayer))
	}

	g.CurrentPlayerIndex = (g.DealerIndex + 1) % NumPlayers
	g.Phase = Bidding
	log.Printf("game %s: round %d started, dealer %d, player %d to bid",
		g.ID, g.RoundNumber, g.DealerIndex, g.CurrentPlayerIndex)

	g.checkConservation()
	g.emit(CardsDealt{RoundNumber: g.RoundNumber, DealerIndex: g.DealerIndex})
}

// PlaceBid records the current player's bid. The minimum legal bid
// depends on the bidder's cumulative score; the maximum is 13. Once all
// four players hold a bid, play begins with the seat after the dealer;
// the highest bidder does not lead in this ruleset.
func (g *Game) PlaceBid(playerID string, bid int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placeBid(playerID, bid)
}

func (g *Game) placeBid(playerID string, bid int) error {
	if g.corrupted {
		return ErrMatchCorrupted
	}
	if g.Phase != Bidding {
		return fmt.Errorf("%w: cannot bid in phase %s", ErrWrongPhase, g.Phase)
	}
	idx := g.playerIndex(playerID)
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if idx != g.CurrentPlayerIndex {
		return fmt.Errorf("%w: player %d to bid", ErrNotYourTurn, g.CurrentPlayerIndex)
	}

	p := g.Players[idx]
	min := MinBidForScore(p.Score)
	if bid < min || bid > MaxBid {
		return fmt.Errorf("%w: bid %d outside [%d, %d]", ErrIllegalBid, bid, min, MaxBid)
	}

	p.Bid = bid
	log.Printf("game %s: player %d (%s) bid %d", g.ID, idx, p.Name, bid)
	g.CurrentPlayerIndex = (idx + 1) % NumPlayers

	for _, pl := range g.Players {
		if pl.Bid == 0 {
			return nil
		}
	}
	g.Phase = Playing
	g.CurrentPlayerIndex = (g.DealerIndex + 1) % NumPlayers
	log.Printf("game %s: bidding complete, player %d leads", g.ID, g.CurrentPlayerIndex)
	return nil
}

// PlayCard plays a card for the current player. The card must be in the
// player's hand and must follow the trick's lead suit when the player
// holds that suit; there is no forced trump-over rule. Illegal plays are
// rejected without mutating state.
func (g *Game) PlayCard(playerID string, card shared.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playCard(playerID, card)
}

func (g *Game) playCard(playerID string, card shared.Card) error {
	if g.corrupted {
		return ErrMatchCorrupted
	}
	if g.Phase != Playing {
		return fmt.Errorf("%w: cannot play in phase %s", ErrWrongPhase, g.Phase)
	}
	idx := g.playerIndex(playerID)
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if idx != g.CurrentPlayerIndex {
		return fmt.Errorf("%w: player %d to play", ErrNotYourTurn, g.CurrentPlayerIndex)
	}

	p := g.Players[idx]
	if !p.HasCard(card) {
		return fmt.Errorf("%w: %s not in hand", ErrIllegalCard, card)
	}
	leadSuit, hasLead := g.CurrentTrick.LeadSuit()
	if hasLead && card.Suit != leadSuit && p.HasSuit(leadSuit) {
		return fmt.Errorf("%w: must follow %s", ErrIllegalCard, leadSuit)
	}

	g.Memory.Observe(p.ID, card, leadSuit, hasLead)
	if err := p.RemoveCard(card); err != nil {
		// HasCard passed above; reaching this is a hand inconsistency.
		g.corrupted = true
		return fmt.Errorf("%w: %v", ErrMatchCorrupted, err)
	}
	g.CurrentTrick.AddCard(card, idx)
	log.Printf("game %s: player %d (%s) played %s", g.ID, idx, p.Name, card)
	g.emit(CardPlayed{PlayerID: p.ID, Card: card})

	if g.CurrentTrick.Size() == NumPlayers {
		g.finishTrick()
	} else {
		g.CurrentPlayerIndex = (idx + 1) % NumPlayers
	}

	return g.checkConservation()
}

// finishTrick resolves the trick: the winner collects it, leads the next
// one, and after the thirteenth trick the round is scored. Assumes the
// lock is held.
func (g *Game) finishTrick() {
	winnerIdx := g.CurrentTrick.DetermineWinner()
	winner := g.Players[winnerIdx]
	winner.TricksWon++

	cards := make([]shared.Card, 0, g.CurrentTrick.Size())
	for _, pc := range g.CurrentTrick.Cards {
		cards = append(cards, pc.Card)
	}

	g.CurrentTrick.Clear()
	g.CurrentPlayerIndex = winnerIdx
	g.TrickNumber++
	log.Printf("game %s: trick %d won by player %d (%s)", g.ID, g.TrickNumber, winnerIdx, winner.Name)
	g.emit(TrickFinished{WinnerID: winner.ID, TrickNumber: g.TrickNumber, Cards: cards})

	if g.TrickNumber >= CardsPerPlayer {
		g.finishRound()
	}
}

// finishRound applies the scoring table to every player, records the
// round, and either ends the game or deals the next round. Assumes the
// lock is held.
func (g *Game) finishRound() {
	for i, p := range g.Players {
		delta := p.ApplyRoundScore()
		log.Printf("game %s: player %d (%s) bid %d won %d -> %+d (total %d)",
			g.ID, i, p.Name, p.Bid, p.TricksWon, delta, p.Score)
	}

	result := RoundResult{
		RoundNumber: g.RoundNumber,
		TeamScores: map[int]int{
			g.Teams[0].TeamNumber: g.Teams[0].Score(),
			g.Teams[1].TeamNumber: g.Teams[1].Score(),
		},
	}
	g.History = append(g.History, result)
	g.Phase = RoundEnd
	g.emit(RoundFinished{Result: result})

	winnerTeam := 0
	bestScore := 0
	for _, t := range g.Teams {
		if t.Score() >= g.WinThreshold && t.Score() > bestScore {
			winnerTeam = t.TeamNumber
			bestScore = t.Score()
		}
	}
	if winnerTeam != 0 {
		g.WinnerTeam = winnerTeam
		g.Phase = GameOver
		g.updateRatings(winnerTeam)
		log.Printf("game %s: over, team %d wins with %d points", g.ID, winnerTeam, bestScore)
		g.emit(GameFinished{WinnerTeam: winnerTeam})
		return
	}

	g.startRound()
}

// updateRatings applies an Elo adjustment to the AI seats against the
// opposing partnership's average rating. Assumes the lock is held.
func (g *Game) updateRatings(winnerTeam int) {
	avg := func(t *shared.Team) int {
		return (t.Players[0].Rating + t.Players[1].Rating) / 2
	}
	for _, t := range g.Teams {
		var opponents *shared.Team
		if t == g.Teams[0] {
			opponents = g.Teams[1]
		} else {
			opponents = g.Teams[0]
		}
		oppRating := avg(opponents)
		for _, p := range t.Players {
			if p.IsAI() {
				p.UpdateRating(oppRating, t.TeamNumber == winnerTeam)
			}
		}
	}
}

// Reset returns a finished match to a fresh state with the same seats:
// scores and history cleared, a new first round dealt. It is the only
// mutation a terminal match accepts.
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != GameOver {
		return fmt.Errorf("%w: reset only allowed when the game is over", ErrWrongPhase)
	}
	for _, p := range g.Players {
		p.Score = 0
		p.ResetForRound()
	}
	g.History = nil
	g.WinnerTeam = 0
	g.RoundNumber = 0
	g.DealerIndex = -1
	g.corrupted = false
	g.startRound()
	return nil
}

// AdvanceAI performs one AI action (a bid or a card play) if the
// current player is AI-controlled. It returns whether an action was
// taken. Pacing between consecutive AI actions is the caller's concern;
// the engine never sleeps.
func (g *Game) AdvanceAI() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.corrupted {
		return false, ErrMatchCorrupted
	}

	switch g.Phase {
	case Bidding:
		p := g.Players[g.CurrentPlayerIndex]
		if !p.IsAI() {
			return false, nil
		}
		bid := ai.ChooseBid(p, MinBidForScore(p.Score))
		return true, g.placeBid(p.ID, bid)

	case Playing:
		p := g.Players[g.CurrentPlayerIndex]
		if !p.IsAI() {
			return false, nil
		}
		legal := g.legalCards(p)
		card := ai.ChooseCard(p, legal, g.trickView(), g.TrickNumber, g.Memory, g.tuning)
		return true, g.playCard(p.ID, card)

	default:
		return false, nil
	}
}

// NeedsAI reports whether the match is waiting on an AI seat to act.
func (g *Game) NeedsAI() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.corrupted {
		return false
	}
	if g.Phase != Bidding && g.Phase != Playing {
		return false
	}
	return g.Players[g.CurrentPlayerIndex].IsAI()
}

// trickView projects the current trick into what the AI may see.
// Assumes the lock is held.
func (g *Game) trickView() []ai.TrickCard {
	view := make([]ai.TrickCard, 0, g.CurrentTrick.Size())
	for _, pc := range g.CurrentTrick.Cards {
		p := g.Players[pc.PlayerIndex]
		view = append(view, ai.TrickCard{PlayerID: p.ID, TeamID: p.TeamID, Card: pc.Card})
	}
	return view
}

// LegalCards returns the cards the player may legally play right now:
// lead-suit cards when the player holds the lead suit, the whole hand
// otherwise. Outside the playing phase it returns nil.
func (g *Game) LegalCards(playerID string) []shared.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Phase != Playing {
		return nil
	}
	idx := g.playerIndex(playerID)
	if idx == -1 {
		return nil
	}
	return g.legalCards(g.Players[idx])
}

func (g *Game) legalCards(p *shared.Player) []shared.Card {
	leadSuit, hasLead := g.CurrentTrick.LeadSuit()
	if hasLead && p.HasSuit(leadSuit) {
		var legal []shared.Card
		for _, c := range p.Hand {
			if c.Suit == leadSuit {
				legal = append(legal, c)
			}
		}
		return legal
	}
	return append([]shared.Card(nil), p.Hand...)
}

// CurrentPlayerID returns the id of the seat whose turn it is.
func (g *Game) CurrentPlayerID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Players[g.CurrentPlayerIndex].ID
}

// PlayerByID finds a seated player, or nil.
func (g *Game) PlayerByID(playerID string) *shared.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.playerIndex(playerID)
	if idx == -1 {
		return nil
	}
	return g.Players[idx]
}

func (g *Game) playerIndex(playerID string) int {
	for i, p := range g.Players {
		if p != nil && p.ID == playerID {
			return i
		}
	}
	return -1
}

// checkConservation asserts the card conservation invariant: the union
// of all hands, the deck and the current trick is exactly the 52-card
// deck with no duplicates. A violation marks the match corrupted and
// every further mutation is refused; continuing on corrupt state would
// be worse than stopping. Assumes the lock is held.
func (g *Game) checkConservation() error {
	seen := make(map[shared.Card]bool, shared.DeckSize)
	total := 0
	count := func(c shared.Card) bool {
		if seen[c] {
			return false
		}
		seen[c] = true
		total++
		return true
	}

	ok := true
	for _, p := range g.Players {
		for _, c := range p.Hand {
			ok = ok && count(c)
		}
	}
	for _, c := range g.Deck.Cards {
		ok = ok && count(c)
	}
	for _, pc := range g.CurrentTrick.Cards {
		ok = ok && count(pc.Card)
	}

	// Played cards leave the table once a trick resolves, so mid-round
	// the live set shrinks by 4 per finished trick.
	expected := shared.DeckSize - NumPlayers*g.TrickNumber
	if g.Phase == RoundEnd || g.Phase == GameOver {
		expected = 0
	}
	if !ok || total != expected {
		g.corrupted = true
		log.Printf("game %s: conservation violated (unique=%v cards=%d expected=%d), match halted",
			g.ID, ok, total, expected)
		return ErrMatchCorrupted
	}
	return nil
}

// Snapshot produces the full serializable projection of the match. The
// hub fills in per-seat connectivity before broadcasting.
func (g *Game) Snapshot() protocol.GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := protocol.GameSnapshot{
		MatchID:            g.ID,
		Phase:              string(g.Phase),
		RoundNumber:        g.RoundNumber,
		TrickNumber:        g.TrickNumber,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		DealerIndex:        g.DealerIndex,
		WinThreshold:       g.WinThreshold,
		WinnerTeam:         g.WinnerTeam,
		Players:            make([]protocol.PlayerState, 0, NumPlayers),
		CurrentTrick:       make([]protocol.TrickCardState, 0, g.CurrentTrick.Size()),
	}

	for _, p := range g.Players {
		hand := make([]string, 0, len(p.Hand))
		for _, c := range p.Hand {
			hand = append(hand, c.String())
		}
		snap.Players = append(snap.Players, protocol.PlayerState{
			ID:        p.ID,
			Name:      p.Name,
			Kind:      string(p.Kind),
			TeamID:    p.TeamID,
			Bid:       p.Bid,
			TricksWon: p.TricksWon,
			Score:     p.Score,
			Rating:    p.Rating,
			Hand:      hand,
		})
	}
	for _, pc := range g.CurrentTrick.Cards {
		snap.CurrentTrick = append(snap.CurrentTrick, protocol.TrickCardState{
			PlayerID: g.Players[pc.PlayerIndex].ID,
			Card:     pc.Card.String(),
		})
	}
	for _, r := range g.History {
		scores := make(map[int]int, len(r.TeamScores))
		for team, score := range r.TeamScores {
			scores[team] = score
		}
		snap.History = append(snap.History, protocol.RoundResultState{
			RoundNumber: r.RoundNumber,
			TeamScores:  scores,
		})
	}
	return snap
}
