// Package model holds the pluggable success predictor: a trained
// statistical backend and a deterministic heuristic fallback. Both satisfy
// Predictor; the decision engine never needs to know which one it got.
package model

import (
	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

// Predictor scores a feature vector (see game.ExtractFeatures for the
// layout). Implementations must never fail: any internal error substitutes
// the heuristic result so the decision pipeline cannot abort.
type Predictor interface {
	// PredictSuccess returns a success probability in [0,1].
	PredictSuccess(features []float64) float64
	// PredictValue returns the expected trust-point delta.
	PredictValue(features []float64) float64
}

// Heuristic is the rule-based fallback used whenever no trained model is
// loaded or inference fails. Deterministic for a fixed feature vector.
type Heuristic struct{}

func (Heuristic) PredictSuccess(features []float64) float64 {
	if len(features) < game.NumFeatures {
		return 0.5
	}
	selfTrust := features[game.FeatSelfTrust]
	oppTrust := features[game.FeatOpponentTrust]
	boldness := features[game.FeatBoldness]
	mom := features[game.FeatMomentum]

	p := 0.6 + 0.2*(selfTrust-oppTrust) - 0.2*boldness + 0.15*(mom-0.5)
	return clamp(p, 0.1, 0.9)
}

// PredictValue derives the expected trust delta from the heuristic success
// probability and the claim payoff structure.
func (h Heuristic) PredictValue(features []float64) float64 {
	boldness := 0.5
	if len(features) > game.FeatBoldness {
		boldness = features[game.FeatBoldness]
	}
	p := h.PredictSuccess(features)
	gain := 10 + boldness*30
	loss := -(15 + boldness*35)
	return p*gain + (1-p)*loss
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
