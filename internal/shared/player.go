package shared

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
)

// PlayerKind marks a seat as human- or AI-controlled.
type PlayerKind string

const (
	Human PlayerKind = "HUMAN"
	AI    PlayerKind = "AI"
)

// ErrCardNotInHand is returned when removing a card the player does not hold.
var ErrCardNotInHand = errors.New("card not in hand")

// Player represents one of the four seats in a 400 match. Hand, bid and
// tricks won are per-round state; score and rating accumulate across rounds.
type Player struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Kind      PlayerKind `json:"kind"`
	Hand      []Card     `json:"hand"`
	TeamID    int        `json:"team_id"`
	Bid       int        `json:"bid"`
	TricksWon int        `json:"tricks_won"`
	Score     int        `json:"score"`
	Rating    int        `json:"rating"`
}

// NewPlayer creates a player with a fresh unique ID.
func NewPlayer(name string, kind PlayerKind, teamID int) *Player {
	return &Player{
		ID:     uuid.NewString(),
		Name:   name,
		Kind:   kind,
		Hand:   []Card{},
		TeamID: teamID,
		Rating: 1200,
	}
}

// IsAI reports whether the seat is AI-controlled.
func (p *Player) IsAI() bool {
	return p.Kind == AI
}

// AddCards appends cards to the hand and re-sorts it into the canonical
// order (trump first, then descending strength) so UI and bots always
// see the same layout.
func (p *Player) AddCards(cards []Card) {
	p.Hand = append(p.Hand, cards...)
	p.sortHand()
}

func (p *Player) sortHand() {
	sort.SliceStable(p.Hand, func(i, j int) bool {
		a, b := p.Hand[i], p.Hand[j]
		if a.IsTrump() != b.IsTrump() {
			return a.IsTrump()
		}
		return a.Strength() > b.Strength()
	})
}

// RemoveCard removes the given card from the hand, or returns
// ErrCardNotInHand if the player does not hold it.
func (p *Player) RemoveCard(card Card) error {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return nil
		}
	}
	return ErrCardNotInHand
}

// HasCard reports whether the card is currently in the hand.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether the player holds any card of the given suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// ResetForRound clears the hand, bid and tricks won. Score is untouched.
func (p *Player) ResetForRound() {
	p.Hand = p.Hand[:0]
	p.Bid = 0
	p.TricksWon = 0
}

// ApplyRoundScore computes the round delta from the bid and tricks won,
// applies it to the cumulative score, and returns it.
//
// The 13-bid capot is checked first and is exhaustive for that bid:
// making all 13 is worth +400, anything less costs 52. Below that, bids
// of 7 and up score double, and falling short mirrors the reward.
func (p *Player) ApplyRoundScore() int {
	var delta int
	switch {
	case p.Bid == 13:
		if p.TricksWon == 13 {
			delta = 400
		} else {
			delta = -52
		}
	case p.TricksWon >= p.Bid:
		if p.Bid >= 7 {
			delta = p.Bid * 2
		} else {
			delta = p.Bid
		}
	default:
		if p.Bid >= 7 {
			delta = -p.Bid * 2
		} else {
			delta = -p.Bid
		}
	}
	p.Score += delta
	return delta
}

// UpdateRating applies an Elo adjustment against an opponent rating.
// Used only to calibrate AI opponents.
func (p *Player) UpdateRating(opponentRating int, won bool) {
	const kFactor = 32
	expected := 1.0 / (1 + math.Pow(10, float64(opponentRating-p.Rating)/400.0))
	outcome := 0.0
	if won {
		outcome = 1.0
	}
	// Truncation toward zero, not rounding.
	p.Rating += int(kFactor * (outcome - expected))
	if p.Rating < 800 {
		p.Rating = 800
	}
	if p.Rating > 3000 {
		p.Rating = 3000
	}
}
