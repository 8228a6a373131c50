package shared

import "log"

// PlayedCard stores a card along with the seat index of the player who
// played it.
type PlayedCard struct {
	Card        Card `json:"card"`
	PlayerIndex int  `json:"player_index"`
}

// Trick represents a single trick: up to four cards in play order.
type Trick struct {
	Cards []PlayedCard
}

// NewTrick creates an empty trick.
func NewTrick() *Trick {
	return &Trick{Cards: []PlayedCard{}}
}

// AddCard records a card played by the given seat.
func (t *Trick) AddCard(card Card, playerIndex int) {
	t.Cards = append(t.Cards, PlayedCard{Card: card, PlayerIndex: playerIndex})
}

// Size returns how many cards have been played in the trick.
func (t *Trick) Size() int {
	return len(t.Cards)
}

// Clear resets the trick for the next lead.
func (t *Trick) Clear() {
	t.Cards = t.Cards[:0]
}

// LeadSuit returns the suit of the first card played, which fixes
// follow-suit legality for the rest of the trick. ok is false while the
// trick is empty.
func (t *Trick) LeadSuit() (Suit, bool) {
	if len(t.Cards) == 0 {
		return "", false
	}
	return t.Cards[0].Card.Suit, true
}

// DetermineWinner returns the seat index that wins the trick: the
// highest-strength trump if any trump was played, otherwise the
// highest-strength card of the lead suit. The scan runs in play order
// with a strict comparison, so the first card to reach the maximum
// strength keeps the win.
func (t *Trick) DetermineWinner() int {
	if len(t.Cards) == 0 {
		log.Panicf("cannot determine winner of an empty trick")
	}
	leadSuit := t.Cards[0].Card.Suit

	hasTrump := false
	for _, pc := range t.Cards {
		if pc.Card.IsTrump() {
			hasTrump = true
			break
		}
	}

	best := -1
	winner := -1
	for _, pc := range t.Cards {
		if hasTrump {
			if !pc.Card.IsTrump() {
				continue
			}
		} else if pc.Card.Suit != leadSuit {
			continue
		}
		if pc.Card.Strength() > best {
			best = pc.Card.Strength()
			winner = pc.PlayerIndex
		}
	}
	return winner
}
