package ai

import (
	"math"

	"four-hundred-game/internal/shared"
)

// EvaluateHandStrength scores a hand as a weighted sum: the raw trump
// count, a per-trump rank bonus, a bonus per non-trump high card, and a
// bonus per short suit (cut potential).
func EvaluateHandStrength(hand []shared.Card) float64 {
	score := 0.0

	suitCounts := make(map[shared.Suit]int)
	for _, c := range hand {
		suitCounts[c.Suit]++

		if c.IsTrump() {
			score += 4.0
			switch c.Rank {
			case shared.Ace:
				score += 5.0
			case shared.King:
				score += 4.0
			case shared.Queen:
				score += 3.0
			case shared.Jack:
				score += 2.0
			default:
				score += 1.0
			}
		} else if c.Value() >= 11 {
			score += 1.2
		}
	}

	for _, suit := range shared.Suits {
		if suit == shared.TrumpSuit {
			continue
		}
		if suitCounts[suit] <= 2 {
			score += 1.0
		}
	}

	return score
}

// ChooseBid maps hand strength to a bid for the given player. minBid is
// the table minimum for the player's score tier. A player already at 30
// points or more shades the bid down: the scoring swings near game end
// punish overreach hard.
func ChooseBid(p *shared.Player, minBid int) int {
	strength := EvaluateHandStrength(p.Hand)

	bid := int(math.Round(strength / 5.0))
	if strength > 30 {
		bid++
	}
	if strength > 36 {
		bid++
	}
	if p.Score >= 30 {
		bid--
	}

	if bid < minBid {
		bid = minBid
	}
	if bid > 13 {
		bid = 13
	}
	return bid
}
