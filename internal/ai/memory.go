package ai

import "four-hundred-game/internal/shared"

// Memory stores an AI seat's private view of the round: which cards have
// hit the table and which suits each player has shown to be void in. It
// is owned by the match, reset at the start of every round, and is the
// only channel by which decisions see hidden information; it never
// looks into another player's hand.
type Memory struct {
	played     map[shared.Card]bool
	suitCounts map[shared.Suit]int
	voidSuits  map[string]map[shared.Suit]bool
}

// NewMemory initializes an empty round memory.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears everything for a new round.
func (m *Memory) Reset() {
	m.played = make(map[shared.Card]bool)
	m.suitCounts = make(map[shared.Suit]int)
	m.voidSuits = make(map[string]map[shared.Suit]bool)
}

// Observe records a card played to the table. When the player could not
// follow the lead suit, that suit is marked void for them.
func (m *Memory) Observe(playerID string, card shared.Card, leadSuit shared.Suit, hasLead bool) {
	m.played[card] = true
	m.suitCounts[card.Suit]++

	if hasLead && card.Suit != leadSuit {
		void, ok := m.voidSuits[playerID]
		if !ok {
			void = make(map[shared.Suit]bool)
			m.voidSuits[playerID] = void
		}
		void[leadSuit] = true
	}
}

// Played reports whether the card has already been seen this round.
func (m *Memory) Played(card shared.Card) bool {
	return m.played[card]
}

// PlayedCount returns how many cards have been seen this round.
func (m *Memory) PlayedCount() int {
	return len(m.played)
}

// SuitCount returns how many cards of the suit have been seen.
func (m *Memory) SuitCount(suit shared.Suit) int {
	return m.suitCounts[suit]
}

// ShownVoid reports whether the player has shown to be out of the suit.
func (m *Memory) ShownVoid(playerID string, suit shared.Suit) bool {
	return m.voidSuits[playerID][suit]
}

// RemainingDeck builds the set of unseen cards from the acting player's
// perspective: the full deck minus everything played, minus the player's
// own hand, minus the candidate under consideration.
func (m *Memory) RemainingDeck(hand []shared.Card, candidate shared.Card) []shared.Card {
	inHand := make(map[shared.Card]bool, len(hand))
	for _, c := range hand {
		inHand[c] = true
	}
	var remaining []shared.Card
	for _, suit := range shared.Suits {
		for _, rank := range shared.Ranks {
			c := shared.Card{Suit: suit, Rank: rank}
			if m.played[c] || inHand[c] || c == candidate {
				continue
			}
			remaining = append(remaining, c)
		}
	}
	return remaining
}
