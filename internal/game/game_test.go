package game

import (
	"errors"
	"fmt"
	"testing"

	"four-hundred-game/internal/shared"
)

func suitHand(suit shared.Suit) []shared.Card {
	cards := make([]shared.Card, 0, len(shared.Ranks))
	for _, r := range shared.Ranks {
		cards = append(cards, shared.Card{Suit: suit, Rank: r})
	}
	return cards
}

// newRiggedGame starts a networked match and replaces the shuffled deal
// with suit-pure hands: seat 0 spades, seat 1 hearts, seat 2 diamonds,
// seat 3 clubs. Conservation still holds, and seat 1 holding every
// trump makes outcomes fully deterministic.
func newRiggedGame(t *testing.T, threshold int) *Game {
	t.Helper()
	var players [NumPlayers]*shared.Player
	for i := range players {
		players[i] = shared.NewPlayer(fmt.Sprintf("seat%d", i), shared.Human, 0)
	}
	g := NewGame(players, Options{WinThreshold: threshold, Networked: true})
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	suits := []shared.Suit{shared.Spades, shared.Hearts, shared.Diamonds, shared.Clubs}
	for i, p := range g.Players {
		p.Hand = p.Hand[:0]
		p.AddCards(suitHand(suits[i]))
	}
	return g
}

func placeBids(t *testing.T, g *Game, bids map[int]int) {
	t.Helper()
	for i := 0; i < NumPlayers; i++ {
		idx := g.CurrentPlayerIndex
		if err := g.PlaceBid(g.Players[idx].ID, bids[idx]); err != nil {
			t.Fatalf("seat %d bid %d: %v", idx, bids[idx], err)
		}
	}
}

func TestMinBidForScore(t *testing.T) {
	cases := []struct {
		score int
		want  int
	}{
		{0, 2}, {29, 2}, {30, 3}, {39, 3}, {40, 4}, {55, 4}, {-10, 2},
	}
	for _, c := range cases {
		if got := MinBidForScore(c.score); got != c.want {
			t.Errorf("MinBidForScore(%d) = %d, want %d", c.score, got, c.want)
		}
	}
}

func TestNetworkedGameWaitsForStart(t *testing.T) {
	var players [NumPlayers]*shared.Player
	for i := range players {
		players[i] = shared.NewPlayer(fmt.Sprintf("seat%d", i), shared.Human, 0)
	}
	g := NewGame(players, Options{Networked: true})

	if g.Phase != WaitingForPlayers {
		t.Fatalf("phase = %s, want WAITING_FOR_PLAYERS", g.Phase)
	}
	if err := g.PlaceBid(players[0].ID, 2); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("bid before start: got %v, want ErrWrongPhase", err)
	}

	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if g.Phase != Bidding {
		t.Errorf("phase = %s, want BIDDING", g.Phase)
	}
	if g.DealerIndex != 0 {
		t.Errorf("first dealer = %d, want 0", g.DealerIndex)
	}
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("first bidder = %d, want the seat after the dealer", g.CurrentPlayerIndex)
	}
	for i, p := range g.Players {
		if len(p.Hand) != CardsPerPlayer {
			t.Errorf("seat %d holds %d cards, want %d", i, len(p.Hand), CardsPerPlayer)
		}
	}
	if g.Deck.Size() != 0 {
		t.Errorf("deck not empty after the deal: %d", g.Deck.Size())
	}

	if err := g.Start(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second Start: got %v, want ErrWrongPhase", err)
	}
}

func TestLocalGameStartsImmediately(t *testing.T) {
	var players [NumPlayers]*shared.Player
	for i := range players {
		players[i] = shared.NewPlayer(fmt.Sprintf("bot%d", i), shared.AI, 0)
	}
	g := NewGame(players, Options{})
	if g.Phase != Bidding {
		t.Errorf("local match phase = %s, want BIDDING", g.Phase)
	}
	if g.WinThreshold != DefaultWinThreshold {
		t.Errorf("threshold = %d, want default %d", g.WinThreshold, DefaultWinThreshold)
	}
}

func TestBiddingValidation(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)
	bidder := g.Players[1]

	if err := g.PlaceBid(g.Players[0].ID, 2); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out-of-turn bid: got %v, want ErrNotYourTurn", err)
	}
	if err := g.PlaceBid("nobody", 2); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("unknown bidder: got %v, want ErrUnknownPlayer", err)
	}
	if err := g.PlaceBid(bidder.ID, 1); !errors.Is(err, ErrIllegalBid) {
		t.Errorf("below-minimum bid: got %v, want ErrIllegalBid", err)
	}
	if err := g.PlaceBid(bidder.ID, 14); !errors.Is(err, ErrIllegalBid) {
		t.Errorf("above-maximum bid: got %v, want ErrIllegalBid", err)
	}

	// Nothing moved on the rejections.
	if bidder.Bid != 0 || g.CurrentPlayerIndex != 1 || g.Phase != Bidding {
		t.Fatalf("state mutated by rejected bids: bid=%d current=%d phase=%s",
			bidder.Bid, g.CurrentPlayerIndex, g.Phase)
	}

	if err := g.PlayCard(bidder.ID, bidder.Hand[0]); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("play during bidding: got %v, want ErrWrongPhase", err)
	}
}

func TestBiddingMinimumRisesWithScore(t *testing.T) {
	g := newRiggedGame(t, 1000)
	bidder := g.Players[1]
	bidder.Score = 35

	if err := g.PlaceBid(bidder.ID, 2); !errors.Is(err, ErrIllegalBid) {
		t.Errorf("bid of 2 at 35 points: got %v, want ErrIllegalBid", err)
	}
	if err := g.PlaceBid(bidder.ID, 3); err != nil {
		t.Errorf("bid of 3 at 35 points: %v", err)
	}
}

func TestBiddingCompletionStartsPlay(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)
	placeBids(t, g, map[int]int{0: 2, 1: 4, 2: 3, 3: 3})

	if g.Phase != Playing {
		t.Fatalf("phase = %s, want PLAYING", g.Phase)
	}
	// The seat after the dealer leads, not the highest bidder.
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("first leader = %d, want 1", g.CurrentPlayerIndex)
	}
}

func TestFollowSuitEnforced(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)

	// Swap one card between seats 1 and 2 so seat 2 holds a single heart.
	heartTwo := shared.Card{Suit: shared.Hearts, Rank: shared.Two}
	diamondTwo := shared.Card{Suit: shared.Diamonds, Rank: shared.Two}
	if err := g.Players[1].RemoveCard(heartTwo); err != nil {
		t.Fatalf("rig: %v", err)
	}
	if err := g.Players[2].RemoveCard(diamondTwo); err != nil {
		t.Fatalf("rig: %v", err)
	}
	g.Players[1].AddCards([]shared.Card{diamondTwo})
	g.Players[2].AddCards([]shared.Card{heartTwo})

	placeBids(t, g, map[int]int{0: 2, 1: 2, 2: 2, 3: 2})

	lead := shared.Card{Suit: shared.Hearts, Rank: shared.Ace}
	if err := g.PlayCard(g.Players[1].ID, lead); err != nil {
		t.Fatalf("lead: %v", err)
	}

	// Seat 2 holds a heart, so a diamond is illegal.
	offSuit := shared.Card{Suit: shared.Diamonds, Rank: shared.Ace}
	if err := g.PlayCard(g.Players[2].ID, offSuit); !errors.Is(err, ErrIllegalCard) {
		t.Fatalf("off-suit with lead suit in hand: got %v, want ErrIllegalCard", err)
	}
	if len(g.Players[2].Hand) != CardsPerPlayer || g.CurrentTrick.Size() != 1 || g.CurrentPlayerIndex != 2 {
		t.Fatalf("state mutated by rejected play")
	}

	legal := g.LegalCards(g.Players[2].ID)
	if len(legal) != 1 || legal[0] != heartTwo {
		t.Fatalf("legal cards = %v, want just %s", legal, heartTwo)
	}

	if err := g.PlayCard(g.Players[2].ID, heartTwo); err != nil {
		t.Fatalf("following with the lone heart: %v", err)
	}

	// Playing a card the seat does not hold is rejected outright.
	if err := g.PlayCard(g.Players[3].ID, heartTwo); !errors.Is(err, ErrIllegalCard) {
		t.Errorf("card not in hand: got %v, want ErrIllegalCard", err)
	}
}

// playOutRound drives the rigged match through all thirteen tricks.
// Seat 1 holds every trump and wins each one.
func playOutRound(t *testing.T, g *Game) {
	t.Helper()
	for trick := 0; trick < CardsPerPlayer; trick++ {
		if g.CurrentPlayerIndex != 1 {
			t.Fatalf("trick %d: leader = %d, want the trump holder", trick, g.CurrentPlayerIndex)
		}
		for j := 0; j < NumPlayers; j++ {
			p := g.Players[g.CurrentPlayerIndex]
			if err := g.PlayCard(p.ID, p.Hand[0]); err != nil {
				t.Fatalf("trick %d play %d: %v", trick, j, err)
			}
		}
	}
}

func TestCapotRoundEndsGame(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)
	placeBids(t, g, map[int]int{0: 2, 1: 13, 2: 2, 3: 2})
	playOutRound(t, g)

	if g.Phase != GameOver {
		t.Fatalf("phase = %s, want GAME_OVER", g.Phase)
	}
	if g.WinnerTeam != shared.Team2 {
		t.Errorf("winner team = %d, want %d", g.WinnerTeam, shared.Team2)
	}
	if got := g.Players[1].Score; got != 400 {
		t.Errorf("capot score = %d, want 400", got)
	}
	for _, i := range []int{0, 2, 3} {
		if got := g.Players[i].Score; got != -2 {
			t.Errorf("seat %d score = %d, want -2", i, got)
		}
	}
	if len(g.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(g.History))
	}
	r := g.History[0]
	if r.TeamScores[shared.Team1] != -4 || r.TeamScores[shared.Team2] != 398 {
		t.Errorf("recorded team scores = %v", r.TeamScores)
	}

	if got := g.LegalCards(g.Players[1].ID); got != nil {
		t.Errorf("legal cards after game over = %v, want nil", got)
	}
	if err := g.PlayCard(g.Players[1].ID, shared.Card{Suit: shared.Hearts, Rank: shared.Ace}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("play after game over: got %v, want ErrWrongPhase", err)
	}
}

func TestFailedCapotCostsFiftyTwo(t *testing.T) {
	g := newRiggedGame(t, 1000)
	// Seat 2 bids capot but holds no trump; seat 1 takes every trick.
	placeBids(t, g, map[int]int{0: 2, 1: 2, 2: 13, 3: 2})
	playOutRound(t, g)

	if got := g.Players[2].Score; got != -52 {
		t.Errorf("failed capot score = %d, want -52", got)
	}
	if got := g.Players[1].Score; got != 2 {
		t.Errorf("trump holder score = %d, want +2 for an overmade low bid", got)
	}
}

func TestRoundRolloverRotatesDealer(t *testing.T) {
	g := newRiggedGame(t, 1000)
	placeBids(t, g, map[int]int{0: 2, 1: 13, 2: 2, 3: 2})
	playOutRound(t, g)

	// Nobody reached 1000: the next round deals itself immediately.
	if g.Phase != Bidding {
		t.Fatalf("phase = %s, want BIDDING", g.Phase)
	}
	if g.RoundNumber != 2 {
		t.Errorf("round number = %d, want 2", g.RoundNumber)
	}
	if g.DealerIndex != 1 {
		t.Errorf("dealer = %d, want rotated to 1", g.DealerIndex)
	}
	if g.CurrentPlayerIndex != 2 {
		t.Errorf("first bidder = %d, want 2", g.CurrentPlayerIndex)
	}
	for i, p := range g.Players {
		if len(p.Hand) != CardsPerPlayer {
			t.Errorf("seat %d holds %d cards after redeal", i, len(p.Hand))
		}
		if p.Bid != 0 || p.TricksWon != 0 {
			t.Errorf("seat %d per-round state not reset", i)
		}
	}
	// Cumulative scores carry over.
	if g.Players[1].Score != 400 {
		t.Errorf("score lost across rounds: %d", g.Players[1].Score)
	}
}

func TestConservationViolationHaltsMatch(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)
	placeBids(t, g, map[int]int{0: 2, 1: 2, 2: 2, 3: 2})

	// Force a duplicate: seat 0 now holds one of seat 3's clubs.
	g.Players[0].Hand[0] = g.Players[3].Hand[0]

	err := g.PlayCard(g.Players[1].ID, shared.Card{Suit: shared.Hearts, Rank: shared.Ace})
	if !errors.Is(err, ErrMatchCorrupted) {
		t.Fatalf("play with duplicated card in play: got %v, want ErrMatchCorrupted", err)
	}

	// The match stays halted.
	if err := g.PlayCard(g.Players[2].ID, g.Players[2].Hand[0]); !errors.Is(err, ErrMatchCorrupted) {
		t.Errorf("play on corrupted match: got %v, want ErrMatchCorrupted", err)
	}
	if err := g.PlaceBid(g.Players[2].ID, 2); !errors.Is(err, ErrMatchCorrupted) {
		t.Errorf("bid on corrupted match: got %v, want ErrMatchCorrupted", err)
	}
	if g.NeedsAI() {
		t.Errorf("corrupted match should not request AI moves")
	}
}

func TestResetAfterGameOver(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)

	if err := g.Reset(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("reset mid-match: got %v, want ErrWrongPhase", err)
	}

	placeBids(t, g, map[int]int{0: 2, 1: 13, 2: 2, 3: 2})
	playOutRound(t, g)
	if g.Phase != GameOver {
		t.Fatalf("phase = %s, want GAME_OVER", g.Phase)
	}

	if err := g.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if g.Phase != Bidding || g.RoundNumber != 1 || g.WinnerTeam != 0 {
		t.Errorf("reset state: phase=%s round=%d winner=%d", g.Phase, g.RoundNumber, g.WinnerTeam)
	}
	if len(g.History) != 0 {
		t.Errorf("history survived reset")
	}
	for i, p := range g.Players {
		if p.Score != 0 {
			t.Errorf("seat %d score = %d after reset", i, p.Score)
		}
		if len(p.Hand) != CardsPerPlayer {
			t.Errorf("seat %d holds %d cards after reset", i, len(p.Hand))
		}
	}
}

func TestEventsEmittedThroughRound(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)

	var dealt, played, tricks, rounds, finished int
	g.SetEventSink(func(ev Event) {
		switch ev.(type) {
		case CardsDealt:
			dealt++
		case CardPlayed:
			played++
		case TrickFinished:
			tricks++
		case RoundFinished:
			rounds++
		case GameFinished:
			finished++
		}
	})

	placeBids(t, g, map[int]int{0: 2, 1: 13, 2: 2, 3: 2})
	playOutRound(t, g)

	if played != 52 {
		t.Errorf("card played events = %d, want 52", played)
	}
	if tricks != CardsPerPlayer {
		t.Errorf("trick events = %d, want %d", tricks, CardsPerPlayer)
	}
	if rounds != 1 || finished != 1 {
		t.Errorf("round events = %d, game events = %d, want 1 and 1", rounds, finished)
	}
	// The sink was installed after the opening deal.
	if dealt != 0 {
		t.Errorf("deal events = %d, want 0", dealt)
	}
}

func TestAIPlaysFullMatch(t *testing.T) {
	var players [NumPlayers]*shared.Player
	for i := range players {
		players[i] = shared.NewPlayer(fmt.Sprintf("bot%d", i), shared.AI, 0)
	}
	g := NewGame(players, Options{WinThreshold: 5})

	for i := 0; i < 100000; i++ {
		acted, err := g.AdvanceAI()
		if err != nil {
			t.Fatalf("AdvanceAI: %v", err)
		}
		if !acted {
			break
		}
	}

	if g.Phase != GameOver {
		t.Fatalf("AI match did not finish: phase=%s round=%d", g.Phase, g.RoundNumber)
	}
	if g.WinnerTeam != shared.Team1 && g.WinnerTeam != shared.Team2 {
		t.Errorf("winner team = %d", g.WinnerTeam)
	}
	winners := g.Teams[g.WinnerTeam-1]
	if winners.Score() < 5 {
		t.Errorf("winning team score = %d, below the threshold", winners.Score())
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	g := newRiggedGame(t, DefaultWinThreshold)
	placeBids(t, g, map[int]int{0: 2, 1: 4, 2: 3, 3: 3})

	lead := shared.Card{Suit: shared.Hearts, Rank: shared.Ace}
	if err := g.PlayCard(g.Players[1].ID, lead); err != nil {
		t.Fatalf("lead: %v", err)
	}

	snap := g.Snapshot()
	if snap.MatchID != g.ID || snap.Phase != string(Playing) {
		t.Errorf("snapshot header: %+v", snap)
	}
	if snap.CurrentPlayerIndex != 2 || snap.DealerIndex != 0 {
		t.Errorf("snapshot turn state: current=%d dealer=%d", snap.CurrentPlayerIndex, snap.DealerIndex)
	}
	if len(snap.Players) != NumPlayers {
		t.Fatalf("snapshot players = %d", len(snap.Players))
	}
	if snap.Players[1].Bid != 4 || len(snap.Players[1].Hand) != CardsPerPlayer-1 {
		t.Errorf("snapshot seat 1: bid=%d hand=%d", snap.Players[1].Bid, len(snap.Players[1].Hand))
	}
	if len(snap.CurrentTrick) != 1 || snap.CurrentTrick[0].Card != "HEARTS_ACE" {
		t.Errorf("snapshot trick: %+v", snap.CurrentTrick)
	}
	if snap.CurrentTrick[0].PlayerID != g.Players[1].ID {
		t.Errorf("snapshot trick player id mismatch")
	}
}
