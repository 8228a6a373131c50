package shared

import (
	"fmt"
	"strings"
)

// Suit represents the suit of a card.
type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// TrumpSuit is fixed for the whole game: Hearts are always trump in 400.
const TrumpSuit = Hearts

// Suits lists all suits in deck-building order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank represents the rank of a card.
type Rank string

const (
	Two   Rank = "TWO"
	Three Rank = "THREE"
	Four  Rank = "FOUR"
	Five  Rank = "FIVE"
	Six   Rank = "SIX"
	Seven Rank = "SEVEN"
	Eight Rank = "EIGHT"
	Nine  Rank = "NINE"
	Ten   Rank = "TEN"
	Jack  Rank = "JACK"
	Queen Rank = "QUEEN"
	King  Rank = "KING"
	Ace   Rank = "ACE"
)

// Ranks lists all ranks in deck-building order.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// rankValues maps each rank to its comparison value (Ace high).
var rankValues = map[Rank]int{
	Two:   2,
	Three: 3,
	Four:  4,
	Five:  5,
	Six:   6,
	Seven: 7,
	Eight: 8,
	Nine:  9,
	Ten:   10,
	Jack:  11,
	Queen: 12,
	King:  13,
	Ace:   14,
}

// Card represents a single playing card. Cards are immutable values,
// compared by (suit, rank).
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// IsTrump reports whether the card belongs to the trump suit.
func (c Card) IsTrump() bool {
	return c.Suit == TrumpSuit
}

// Value returns the plain rank value of the card (2..14).
func (c Card) Value() int {
	return rankValues[c.Rank]
}

// Strength returns the card's comparison strength: the rank value, plus
// a flat bonus for trump cards so any trump beats any non-trump.
func (c Card) Strength() int {
	if c.IsTrump() {
		return c.Value() + 20
	}
	return c.Value()
}

// String encodes the card in the wire format "<SUIT>_<RANK>", e.g. "HEARTS_ACE".
func (c Card) String() string {
	return string(c.Suit) + "_" + string(c.Rank)
}

// ParseCard decodes the "<SUIT>_<RANK>" wire encoding. Malformed input
// yields an error, never a panic.
func ParseCard(s string) (Card, error) {
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return Card{}, fmt.Errorf("malformed card %q", s)
	}
	suit := Suit(parts[0])
	switch suit {
	case Hearts, Diamonds, Clubs, Spades:
	default:
		return Card{}, fmt.Errorf("unknown suit %q", parts[0])
	}
	rank := Rank(parts[1])
	if _, ok := rankValues[rank]; !ok {
		return Card{}, fmt.Errorf("unknown rank %q", parts[1])
	}
	return Card{Suit: suit, Rank: rank}, nil
}
