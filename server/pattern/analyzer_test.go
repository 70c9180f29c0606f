package pattern

import (
	"math"
	"testing"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

func TestAnalyzeEmptyHistoryIsNeutral(t *testing.T) {
	a := NewAnalyzer()
	p := a.Analyze(nil)
	if p != defaultPattern() {
		t.Fatalf("empty history should yield the neutral profile, got %+v", p)
	}
}

func TestBluffFrequency(t *testing.T) {
	history := []game.Move{
		{"action": "CLAIM", "is_bluff": true},
		{"action": "CLAIM", "is_bluff": false},
		{"action": "CLAIM", "is_bluff": true},
		{"action": "CLAIM", "is_bluff": true},
		{"action": "CHALLENGE"},
	}
	p := NewAnalyzer().Analyze(history)
	if math.Abs(p.BluffFrequency-0.75) > 1e-9 {
		t.Fatalf("bluff frequency: got %v, want 0.75", p.BluffFrequency)
	}
}

func TestChallengeTendency(t *testing.T) {
	history := []game.Move{
		{"action": "CHALLENGE"},
		{"action": "ACCEPT"},
		{"action": "CHALLENGE"},
		{"action": "ACCEPT"},
		{"action": "CLAIM", "boldness": 0.5},
	}
	p := NewAnalyzer().Analyze(history)
	if math.Abs(p.ChallengeTendency-0.5) > 1e-9 {
		t.Fatalf("challenge tendency: got %v, want 0.5", p.ChallengeTendency)
	}
}

func TestConsistencySteadyBoldness(t *testing.T) {
	var history []game.Move
	for i := 0; i < 6; i++ {
		history = append(history, game.Move{"action": "CLAIM", "boldness": 0.6})
	}
	p := NewAnalyzer().Analyze(history)
	if p.Consistency != 1.0 {
		t.Fatalf("identical boldness should be fully consistent, got %v", p.Consistency)
	}
}

func TestConsistencyNeedsFiveMoves(t *testing.T) {
	history := []game.Move{
		{"action": "CLAIM", "boldness": 0.1},
		{"action": "CLAIM", "boldness": 0.9},
	}
	p := NewAnalyzer().Analyze(history)
	if p.Consistency != 0.5 {
		t.Fatalf("short history should be neutral, got %v", p.Consistency)
	}
}

func TestPredictNextMoveClaimPhase(t *testing.T) {
	var history []game.Move
	for i := 0; i < 8; i++ {
		history = append(history, game.Move{"action": "CLAIM", "boldness": 0.8, "is_bluff": true})
	}
	pred := NewAnalyzer().PredictNextMove(history, game.PhaseClaim, -30)

	if pred.LikelyAction != game.ActionClaim {
		t.Fatalf("claim phase should predict CLAIM, got %s", pred.LikelyAction)
	}
	// aggression 0.8 + 0.2 behind-bonus, clamped to 0.9
	if math.Abs(pred.PredictedBoldness-0.9) > 1e-9 {
		t.Fatalf("predicted boldness: got %v, want 0.9", pred.PredictedBoldness)
	}
	if !pred.LikelyBluff {
		t.Fatal("habitual bluffer should be predicted to bluff")
	}
	// fully consistent → 0.6 + 0.3
	if math.Abs(pred.Confidence-0.9) > 1e-9 {
		t.Fatalf("confidence: got %v, want 0.9", pred.Confidence)
	}
}

func TestPredictNextMoveChallengePhase(t *testing.T) {
	history := []game.Move{
		{"action": "CHALLENGE"},
		{"action": "CHALLENGE"},
		{"action": "ACCEPT"},
	}
	pred := NewAnalyzer().PredictNextMove(history, game.PhaseChallenge, 0)
	if pred.LikelyAction != game.ActionChallenge {
		t.Fatalf("frequent challenger should be predicted to challenge, got %s", pred.LikelyAction)
	}

	passive := []game.Move{
		{"action": "ACCEPT"},
		{"action": "ACCEPT"},
		{"action": "CHALLENGE"},
	}
	pred = NewAnalyzer().PredictNextMove(passive, game.PhaseChallenge, 0)
	if pred.LikelyAction != game.ActionAccept {
		t.Fatalf("passive player should be predicted to accept, got %s", pred.LikelyAction)
	}
}

func TestRecordBoundedBuffer(t *testing.T) {
	a := NewAnalyzer()
	for i := 0; i < historyWindow+10; i++ {
		a.Record("p1", game.Outcome{Round: i})
	}
	got := a.Recorded("p1")
	if len(got) != historyWindow {
		t.Fatalf("buffer length: got %d, want %d", len(got), historyWindow)
	}
	if got[0].Round != 10 {
		t.Fatalf("oldest entries should be evicted, first round is %d", got[0].Round)
	}

	a.Record("", game.Outcome{})
	if len(a.Recorded("")) != 0 {
		t.Fatal("unnamed player must not be recorded")
	}
}
