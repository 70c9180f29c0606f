// Package search provides position evaluation and a fixed-depth minimax
// advisor over abstract claim/challenge candidates. It backs the analyze
// endpoint's recommendation; the decision engine itself does not depend
// on it.
package search

import (
	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

// EvalWeights tunes the relative importance of each evaluation factor.
type EvalWeights struct {
	TrustDifferential float64
	TrustAbsolute     float64
	RoundProgress     float64
	Momentum          float64
	PositionAdvantage float64
}

func DefaultEvalWeights() EvalWeights {
	return EvalWeights{
		TrustDifferential: 1.0,
		TrustAbsolute:     0.5,
		RoundProgress:     0.3,
		Momentum:          0.7,
		PositionAdvantage: 0.8,
	}
}

// Evaluator scores a game state from the engine player's perspective.
type Evaluator struct {
	weights EvalWeights
}

func NewEvaluator() *Evaluator { return &Evaluator{weights: DefaultEvalWeights()} }

func NewEvaluatorWithWeights(w EvalWeights) *Evaluator { return &Evaluator{weights: w} }

// Evaluate returns a score in [-100, 100]; positive favors the game.
func (e *Evaluator) Evaluate(state game.GameState) float64 {
	score := e.trustDifferential(state)*e.weights.TrustDifferential +
		e.trustAbsolute(state)*e.weights.TrustAbsolute +
		e.roundProgress(state)*e.weights.RoundProgress +
		e.momentum(state)*e.weights.Momentum +
		e.positionAdvantage(state)*e.weights.PositionAdvantage

	return clamp(score, -100, 100)
}

func (e *Evaluator) trustDifferential(state game.GameState) float64 {
	diff := float64(state.SelfTrust - state.OpponentTrust)
	return clamp(diff/3.0, -50, 50)
}

func (e *Evaluator) trustAbsolute(state game.GameState) float64 {
	switch {
	case state.SelfTrust >= 80:
		return 20
	case state.SelfTrust <= 0:
		return -20
	default:
		return 0
	}
}

// roundProgress: in the endgame a trust lead becomes more valuable.
func (e *Evaluator) roundProgress(state game.GameState) float64 {
	progress := float64(state.Round) / 20.0
	if progress <= 0.75 {
		return 0
	}
	lead := float64(state.SelfTrust - state.OpponentTrust)
	return lead * (progress * 2.0)
}

func (e *Evaluator) momentum(state game.GameState) float64 {
	history := state.MoveHistory
	if len(history) < 3 {
		return 0
	}
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	sum := 0.0
	for _, m := range history {
		sum += m.TrustChange()
	}
	avg := sum / float64(len(history))
	return clamp(avg, -20, 20)
}

func (e *Evaluator) positionAdvantage(state game.GameState) float64 {
	advantage := 0.0
	if state.SelfTrust >= 90 {
		advantage += 30
	}
	if state.OpponentTrust <= -40 {
		advantage += 25
	}
	if state.SelfTrust <= -40 {
		advantage -= 25
	}
	if state.OpponentTrust >= 90 {
		advantage -= 30
	}
	return advantage
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
