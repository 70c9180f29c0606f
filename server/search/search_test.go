package search

import (
	"testing"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

func TestEvaluateBalancedState(t *testing.T) {
	e := NewEvaluator()
	state := game.GameState{Round: 5, SelfTrust: 50, OpponentTrust: 50}
	if got := e.Evaluate(state); got != 0 {
		t.Fatalf("balanced state should evaluate to 0, got %v", got)
	}
}

func TestEvaluateTrustAdvantage(t *testing.T) {
	e := NewEvaluator()
	ahead := e.Evaluate(game.GameState{Round: 5, SelfTrust: 80, OpponentTrust: 20})
	behind := e.Evaluate(game.GameState{Round: 5, SelfTrust: 20, OpponentTrust: 80})
	if ahead <= 0 {
		t.Fatalf("trust lead should evaluate positive, got %v", ahead)
	}
	if behind >= 0 {
		t.Fatalf("trust deficit should evaluate negative, got %v", behind)
	}
}

func TestEvaluateEndgameAmplifiesLead(t *testing.T) {
	e := NewEvaluator()
	early := e.Evaluate(game.GameState{Round: 5, SelfTrust: 60, OpponentTrust: 40})
	late := e.Evaluate(game.GameState{Round: 18, SelfTrust: 60, OpponentTrust: 40})
	if late <= early {
		t.Fatalf("the same lead should count for more late: early=%v late=%v", early, late)
	}
}

func TestEvaluateMomentum(t *testing.T) {
	e := NewEvaluator()
	winning := []game.Move{
		{"trust_change": 10.0}, {"trust_change": 8.0}, {"trust_change": 12.0},
	}
	withMomentum := e.Evaluate(game.GameState{Round: 5, SelfTrust: 50, OpponentTrust: 50, MoveHistory: winning})
	if withMomentum <= 0 {
		t.Fatalf("positive momentum should lift the score, got %v", withMomentum)
	}
	// fewer than 3 moves contributes nothing
	short := e.Evaluate(game.GameState{Round: 5, SelfTrust: 50, OpponentTrust: 50, MoveHistory: winning[:2]})
	if short != 0 {
		t.Fatalf("short history should not move the score, got %v", short)
	}
}

func TestMinimaxClaimPhase(t *testing.T) {
	s := NewMinimax(3)
	state := game.GameState{Round: 1, Phase: game.PhaseClaim, SelfTrust: 50, OpponentTrust: 50}
	res := s.Search(state)

	if res.BestMove.Action != game.ActionClaim {
		t.Fatalf("claim phase best move should be a claim, got %s", res.BestMove.Action)
	}
	valid := map[float64]bool{0.2: true, 0.4: true, 0.6: true, 0.8: true}
	if !valid[res.BestMove.Boldness] {
		t.Fatalf("boldness outside the candidate grid: %v", res.BestMove.Boldness)
	}
	if res.NodesExplored < 4 {
		t.Fatalf("should explore the full first ply, got %d nodes", res.NodesExplored)
	}
	if res.DepthReached != 3 {
		t.Fatalf("depth: got %d", res.DepthReached)
	}
}

func TestMinimaxChallengePhase(t *testing.T) {
	s := NewMinimax(2)
	claim := &game.Claim{Boldness: 0.8, IsBluff: true}
	state := game.GameState{Round: 5, Phase: game.PhaseChallenge, SelfTrust: 50, OpponentTrust: 50, CurrentClaim: claim}
	res := s.Search(state)

	if res.BestMove.Action != game.ActionChallenge && res.BestMove.Action != game.ActionAccept {
		t.Fatalf("challenge phase must answer the claim, got %s", res.BestMove.Action)
	}
}

func TestMinimaxDeterministic(t *testing.T) {
	state := game.GameState{Round: 8, Phase: game.PhaseClaim, SelfTrust: 65, OpponentTrust: 35}
	a := NewMinimax(3).Search(state)
	b := NewMinimax(3).Search(state)
	if a.BestMove != b.BestMove || a.Evaluation != b.Evaluation || a.NodesExplored != b.NodesExplored {
		t.Fatalf("identical states must search identically: %+v vs %+v", a, b)
	}
}

func TestMinimaxTerminalState(t *testing.T) {
	s := NewMinimax(3)
	state := game.GameState{Round: 20, Phase: game.PhaseClaim, SelfTrust: 70, OpponentTrust: 30}
	res := s.Search(state)
	if res.NodesExplored != 1 {
		t.Fatalf("terminal state should evaluate in place, got %d nodes", res.NodesExplored)
	}
	if res.BestMove.Action != game.ActionClaim {
		t.Fatalf("fallback move for claim phase should claim, got %s", res.BestMove.Action)
	}
}

func TestRolloutWinProbRange(t *testing.T) {
	r := NewRollout(200, 99)
	state := game.GameState{Round: 5, Phase: game.PhaseClaim, SelfTrust: 50, OpponentTrust: 50}
	p := r.WinProb(state, CandidateMove{Action: game.ActionClaim, Boldness: 0.5})
	if p < 0 || p > 1 {
		t.Fatalf("win probability out of range: %v", p)
	}
}

func TestRolloutDecidedPositions(t *testing.T) {
	move := CandidateMove{Action: game.ActionClaim, Boldness: 0.4}

	won := game.GameState{Round: 19, Phase: game.PhaseClaim, SelfTrust: 90, OpponentTrust: -40}
	if p := NewRollout(200, 1).WinProb(won, move); p < 0.9 {
		t.Fatalf("decided winning position: got %v", p)
	}

	lost := game.GameState{Round: 19, Phase: game.PhaseClaim, SelfTrust: -40, OpponentTrust: 90}
	if p := NewRollout(200, 1).WinProb(lost, move); p > 0.1 {
		t.Fatalf("decided losing position: got %v", p)
	}
}

func TestRolloutSeededDeterminism(t *testing.T) {
	state := game.GameState{Round: 5, Phase: game.PhaseClaim, SelfTrust: 55, OpponentTrust: 45}
	move := CandidateMove{Action: game.ActionClaim, Boldness: 0.6, IsBluff: true}
	a := NewRollout(300, 7).WinProb(state, move)
	b := NewRollout(300, 7).WinProb(state, move)
	if a != b {
		t.Fatalf("same seed must reproduce: %v vs %v", a, b)
	}
}
