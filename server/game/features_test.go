package game

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestExtractFeaturesEmptyHistory(t *testing.T) {
	state := GameState{Round: 10, SelfTrust: 60, OpponentTrust: 30}
	f := ExtractFeatures(state, 0.7)

	if len(f) != NumFeatures {
		t.Fatalf("feature vector length: got %d, want %d", len(f), NumFeatures)
	}
	want := []float64{0.5, 0.3, 0.6, 0.7, 0, 0.5, 0.5}
	for i, v := range want {
		if !almost(f[i], v) {
			t.Errorf("feature %d: got %v, want %v", i, f[i], v)
		}
	}
}

func TestExtractFeaturesMomentum(t *testing.T) {
	state := GameState{
		Round: 5, SelfTrust: 50, OpponentTrust: 50,
		MoveHistory: []Move{
			{"trust_change": 10.0},
			{"trust_change": -5.0},
		},
	}
	f := ExtractFeatures(state, 0.5)

	// mean change = 2.5 → 0.5 + 2.5/50
	if !almost(f[FeatMomentum], 0.55) {
		t.Errorf("momentum: got %v, want 0.55", f[FeatMomentum])
	}
	// fewer than 3 moves: volatility stays neutral
	if !almost(f[FeatVolatility], 0.5) {
		t.Errorf("volatility: got %v, want 0.5", f[FeatVolatility])
	}
	if !almost(f[FeatHistoryLen], 2.0/50.0) {
		t.Errorf("history length: got %v", f[FeatHistoryLen])
	}
}

func TestExtractFeaturesVolatilityCapped(t *testing.T) {
	var history []Move
	for i := 0; i < 10; i++ {
		change := 40.0
		if i%2 == 0 {
			change = -40.0
		}
		history = append(history, Move{"trust_change": change})
	}
	f := ExtractFeatures(GameState{Round: 1, MoveHistory: history}, 0.5)
	if f[FeatVolatility] != 1.0 {
		t.Errorf("volatility should cap at 1.0, got %v", f[FeatVolatility])
	}
}

func TestMoveAccessorDefaults(t *testing.T) {
	m := Move{}
	if m.Action() != "" || m.Boldness() != 0 || m.TrustChange() != 0 || m.IsBluff() || m.Success() {
		t.Fatal("empty move should default every accessor to zero values")
	}

	m = Move{"boldness": 3, "trust_change": int64(-7), "is_bluff": true, "success": "yes"}
	if m.Boldness() != 3 {
		t.Errorf("int boldness: got %v", m.Boldness())
	}
	if m.TrustChange() != -7 {
		t.Errorf("int64 trust_change: got %v", m.TrustChange())
	}
	if !m.IsBluff() {
		t.Error("is_bluff true not read")
	}
	if m.Success() {
		t.Error("mistyped success should read as false")
	}
}
