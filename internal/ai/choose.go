package ai

import (
	"log"

	"four-hundred-game/internal/shared"
)

// TrickCard is what the AI is allowed to see of a play already on the
// table: who played it, for which team, and the card itself.
type TrickCard struct {
	PlayerID string
	TeamID   int
	Card     shared.Card
}

// ChooseCard picks a card for the acting player from the legal
// candidates. Each candidate gets a weighted linear score from five
// factors; the first candidate to reach the maximum wins ties.
//
// An empty candidate set on the AI's turn is a logic error upstream.
func ChooseCard(p *shared.Player, legal []shared.Card, trick []TrickCard, trickNumber int, mem *Memory, tun Tuning) shared.Card {
	if len(legal) == 0 {
		log.Panicf("ai: no legal cards for player %s on their turn", p.ID)
	}

	if len(trick) == 0 {
		return chooseOpeningLead(p, legal, tun)
	}

	best := legal[0]
	bestScore := -1e18
	for _, card := range legal {
		score := tun.WinWeight*winProbability(p.Hand, card, trick, mem, tun) +
			tun.TacticalWeight*tacticalFactor(p, card, trickNumber) +
			tun.PartnerWeight*partnerFactor(p, trick) +
			tun.StageWeight*stageFactor(trickNumber) +
			tun.RiskWeight*riskFactor(p, card, trickNumber)
		if score > bestScore {
			bestScore = score
			best = card
		}
	}
	return best
}

// chooseOpeningLead handles an empty trick: lead a strong trump if one
// is held, otherwise the highest card of the longest suit.
func chooseOpeningLead(p *shared.Player, legal []shared.Card, tun Tuning) shared.Card {
	var strongTrump *shared.Card
	for i, c := range legal {
		if c.IsTrump() && (strongTrump == nil || c.Value() > strongTrump.Value()) {
			strongTrump = &legal[i]
		}
	}
	if strongTrump != nil && strongTrump.Value() >= tun.StrongTrumpLeadValue {
		return *strongTrump
	}

	suitCounts := make(map[shared.Suit]int)
	for _, c := range legal {
		suitCounts[c.Suit]++
	}
	longest := legal[0].Suit
	for _, c := range legal {
		if suitCounts[c.Suit] > suitCounts[longest] {
			longest = c.Suit
		}
	}
	best := shared.Card{}
	found := false
	for _, c := range legal {
		if c.Suit == longest && (!found || c.Value() > best.Value()) {
			best = c
			found = true
		}
	}
	return best
}

// winProbability estimates the chance the candidate holds up through
// the trick. It degrades linearly with the unseen higher cards of the
// same suit and the unseen trumps threatening a non-trump candidate,
// compounded once per opponent still to act.
func winProbability(hand []shared.Card, candidate shared.Card, trick []TrickCard, mem *Memory, tun Tuning) float64 {
	remaining := mem.RemainingDeck(hand, candidate)
	if len(remaining) == 0 {
		return 1.0
	}

	higher := 0
	trumpThreats := 0
	for _, c := range remaining {
		if c.Suit == candidate.Suit && c.Value() > candidate.Value() {
			higher++
		}
		if c.IsTrump() && !candidate.IsTrump() {
			trumpThreats++
		}
	}

	risk := (float64(higher) + float64(trumpThreats)*tun.TrumpThreatWeight) / float64(len(remaining))

	unacted := 4 - len(trick) - 1
	for i := 0; i < unacted; i++ {
		risk *= tun.UnactedRiskFactor
	}

	prob := 1.0 - risk
	if prob < 0 {
		prob = 0
	}
	if prob > 1 {
		prob = 1
	}
	return prob
}

// tacticalFactor weighs raw card quality against how badly the player
// still needs tricks to make the bid.
func tacticalFactor(p *shared.Player, card shared.Card, trickNumber int) float64 {
	score := float64(card.Value()) / 14.0
	if card.IsTrump() {
		score += 0.6
	}

	needed := p.Bid - p.TricksWon
	remaining := 13 - trickNumber
	switch {
	case needed <= 0:
		score -= 1.0
	case needed >= remaining:
		score += 1.2
	case needed > remaining/2:
		score += 0.6
	}
	return score
}

// partnerFactor pushes to beat an opponent's provisional win and backs
// off when the partner already holds the trick.
func partnerFactor(p *shared.Player, trick []TrickCard) float64 {
	winner := provisionalWinner(trick)
	if winner == nil {
		return 0
	}
	if winner.TeamID == p.TeamID {
		return -0.6
	}
	return 0.4
}

// provisionalWinner returns the play currently taking the trick, by the
// same rule the engine resolves with: best trump if any, else best card
// of the lead suit, first maximum kept.
func provisionalWinner(trick []TrickCard) *TrickCard {
	if len(trick) == 0 {
		return nil
	}
	leadSuit := trick[0].Card.Suit

	hasTrump := false
	for _, tc := range trick {
		if tc.Card.IsTrump() {
			hasTrump = true
			break
		}
	}

	var winner *TrickCard
	best := -1
	for i, tc := range trick {
		if hasTrump {
			if !tc.Card.IsTrump() {
				continue
			}
		} else if tc.Card.Suit != leadSuit {
			continue
		}
		if tc.Card.Strength() > best {
			best = tc.Card.Strength()
			winner = &trick[i]
		}
	}
	return winner
}

// stageFactor grows as the round progresses so late tricks count more.
func stageFactor(trickNumber int) float64 {
	return float64(trickNumber) / 13.0
}

// riskFactor separates desperation from safety: once the bid can no
// longer be made there is no point burning strong cards, and once it is
// already met weak cards are free to dump.
func riskFactor(p *shared.Player, card shared.Card, trickNumber int) float64 {
	needed := p.Bid - p.TricksWon
	remaining := 13 - trickNumber
	norm := float64(card.Value()) / 14.0

	switch {
	case needed > remaining:
		return -0.5 * norm
	case needed <= 0:
		return 0.5 * (1.0 - norm)
	default:
		return 0
	}
}
