package rating

import (
	"math"
	"testing"
)

func TestUpdateFromRoundWin(t *testing.T) {
	e := New(1500, 24)
	dSelf, dOpp := e.UpdateFromRound(15)

	if dSelf <= 0 {
		t.Fatalf("winning a round must raise the rating, got %v", dSelf)
	}
	if math.Abs(dSelf+dOpp) > 1e-9 {
		t.Fatalf("deltas must be zero-sum, got %v and %v", dSelf, dOpp)
	}
	if e.Self <= e.Opponent {
		t.Fatalf("self should lead after a win: %v vs %v", e.Self, e.Opponent)
	}
	if e.Rounds != 1 {
		t.Fatalf("rounds: got %d", e.Rounds)
	}
}

func TestNeutralRoundMovesNothing(t *testing.T) {
	e := New(1500, 24)
	dSelf, dOpp := e.UpdateFromRound(0)
	if math.Abs(dSelf) > 1e-9 || math.Abs(dOpp) > 1e-9 {
		t.Fatalf("zero trust swing at equal ratings should not move: %v, %v", dSelf, dOpp)
	}
}

func TestMarginScalesUpdate(t *testing.T) {
	small := New(1500, 24)
	big := New(1500, 24)
	dSmall, _ := small.UpdateFromRound(3)
	dBig, _ := big.UpdateFromRound(30)
	if dBig <= dSmall {
		t.Fatalf("bigger trust swings should move ratings more: %v vs %v", dSmall, dBig)
	}
}

func TestDecayAnneals(t *testing.T) {
	e := New(1500, 24)
	first, _ := e.UpdateFromRound(15)
	var last float64
	for i := 0; i < 100; i++ {
		last, _ = e.UpdateFromRound(15)
	}
	if last >= first {
		t.Fatalf("repeat wins should shrink as rounds accumulate: first %v, last %v", first, last)
	}
}

func TestExpectationConvergence(t *testing.T) {
	// a dominant self rating makes further wins nearly free
	e := New(1500, 24)
	e.Self = 1900
	e.Opponent = 1100
	d, _ := e.UpdateFromRound(15)
	even := New(1500, 24)
	dEven, _ := even.UpdateFromRound(15)
	if d >= dEven {
		t.Fatalf("expected wins should pay less: %v vs %v", d, dEven)
	}
}

func TestAdvantageSign(t *testing.T) {
	e := New(1500, 24)
	if e.Advantage() != 0 {
		t.Fatalf("fresh ratings should be even, got %v", e.Advantage())
	}
	for i := 0; i < 5; i++ {
		e.UpdateFromRound(-20)
	}
	if e.Advantage() >= 0 {
		t.Fatalf("sustained losses should leave a deficit, got %v", e.Advantage())
	}
}
