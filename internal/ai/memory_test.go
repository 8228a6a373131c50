package ai

import (
	"testing"

	"four-hundred-game/internal/shared"
)

func TestMemoryObserve(t *testing.T) {
	m := NewMemory()
	lead := shared.Card{Suit: shared.Spades, Rank: shared.King}
	m.Observe("p1", lead, "", false)
	if !m.Played(lead) {
		t.Errorf("lead card not recorded as played")
	}
	if m.SuitCount(shared.Spades) != 1 {
		t.Errorf("spades count = %d, want 1", m.SuitCount(shared.Spades))
	}

	// p2 does not follow spades: they are void in spades from now on.
	offSuit := shared.Card{Suit: shared.Clubs, Rank: shared.Two}
	m.Observe("p2", offSuit, shared.Spades, true)
	if !m.ShownVoid("p2", shared.Spades) {
		t.Errorf("p2 should be marked void in spades")
	}
	if m.ShownVoid("p2", shared.Clubs) {
		t.Errorf("p2 wrongly marked void in clubs")
	}
	if m.ShownVoid("p1", shared.Spades) {
		t.Errorf("p1 wrongly marked void")
	}

	// Following the lead suit marks nothing.
	m.Observe("p3", shared.Card{Suit: shared.Spades, Rank: shared.Four}, shared.Spades, true)
	if m.ShownVoid("p3", shared.Spades) {
		t.Errorf("p3 followed suit, must not be void")
	}

	if m.PlayedCount() != 3 {
		t.Errorf("played count = %d, want 3", m.PlayedCount())
	}
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory()
	m.Observe("p1", shared.Card{Suit: shared.Clubs, Rank: shared.Ace}, shared.Spades, true)
	m.Reset()
	if m.PlayedCount() != 0 {
		t.Errorf("played count after reset = %d", m.PlayedCount())
	}
	if m.ShownVoid("p1", shared.Spades) {
		t.Errorf("void memory survived reset")
	}
}

func TestRemainingDeck(t *testing.T) {
	m := NewMemory()
	hand := []shared.Card{
		{Suit: shared.Hearts, Rank: shared.Ace},
		{Suit: shared.Spades, Rank: shared.Two},
	}
	played := shared.Card{Suit: shared.Clubs, Rank: shared.Ten}
	m.Observe("p2", played, "", false)
	candidate := shared.Card{Suit: shared.Hearts, Rank: shared.Ace}

	remaining := m.RemainingDeck(hand, candidate)
	if len(remaining) != shared.DeckSize-3 {
		t.Fatalf("remaining = %d cards, want %d", len(remaining), shared.DeckSize-3)
	}
	for _, c := range remaining {
		if c == played || c == hand[0] || c == hand[1] {
			t.Errorf("remaining deck contains seen card %s", c)
		}
	}
}
