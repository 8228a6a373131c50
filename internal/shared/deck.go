package shared

import (
	"errors"
	"math/rand/v2"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// ErrEmptyDeck is returned when drawing from an exhausted deck.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck represents an ordered collection of cards. The head of the slice
// is the next card to be drawn.
type Deck struct {
	Cards []Card
}

// NewDeck creates a full, shuffled 52-card deck.
func NewDeck() *Deck {
	d := &Deck{}
	d.Reset()
	return d
}

// Reset rebuilds all 52 unique cards and shuffles them.
func (d *Deck) Reset() {
	d.Cards = d.Cards[:0]
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.Cards = append(d.Cards, Card{Suit: suit, Rank: rank})
		}
	}
	d.Shuffle()
}

// Shuffle randomizes the order of the remaining cards.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns the top card, or ErrEmptyDeck if none remain.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card, nil
}

// DrawMany draws up to n cards, returning however many were available.
// It never fails; an exhausted deck simply yields fewer cards.
func (d *Deck) DrawMany(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	drawn := make([]Card, n)
	copy(drawn, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return drawn
}

// Size returns the number of cards remaining.
func (d *Deck) Size() int {
	return len(d.Cards)
}
