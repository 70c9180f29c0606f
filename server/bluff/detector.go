// Package bluff scores how likely a claim is deceptive by combining four
// weighted behavioral indicators.
package bluff

import (
	"fmt"
	"math"
	"sync"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

// Weights for the four indicators. Must sum to 1.
type Weights struct {
	Boldness      float64 `yaml:"boldness" json:"boldness"`
	Inconsistency float64 `yaml:"inconsistency" json:"inconsistency"`
	Timing        float64 `yaml:"timing" json:"timing"`
	Reputation    float64 `yaml:"reputation" json:"reputation"`
}

// DefaultWeights mirrors the tuned production values.
func DefaultWeights() Weights {
	return Weights{Boldness: 0.25, Inconsistency: 0.30, Timing: 0.15, Reputation: 0.30}
}

func (w Weights) sum() float64 {
	return w.Boldness + w.Inconsistency + w.Timing + w.Reputation
}

// Detector is shared, rarely-mutated configuration; reads take the lock
// so weight swaps stay safe under concurrent decision calls.
type Detector struct {
	mu      sync.RWMutex
	weights Weights
}

func NewDetector() *Detector {
	return &Detector{weights: DefaultWeights()}
}

// SetWeights installs new indicator weights. Non-positive sums are
// rejected; sums that drift from 1 are renormalized rather than trusted.
func (d *Detector) SetWeights(w Weights) error {
	s := w.sum()
	if s <= 0 {
		return fmt.Errorf("indicator weights must have a positive sum, got %.4f", s)
	}
	if math.Abs(s-1.0) > 1e-6 {
		w.Boldness /= s
		w.Inconsistency /= s
		w.Timing /= s
		w.Reputation /= s
	}
	d.mu.Lock()
	d.weights = w
	d.mu.Unlock()
	return nil
}

func (d *Detector) Weights() Weights {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.weights
}

// DetectBluff returns the probability in [0,1] that claim is a bluff,
// judged against the claimant's move history.
func (d *Detector) DetectBluff(claim game.Claim, history []game.Move) float64 {
	w := d.Weights()

	score := boldnessScore(claim)*w.Boldness +
		inconsistencyScore(claim, history)*w.Inconsistency +
		timingScore(history)*w.Timing +
		reputationScore(history)*w.Reputation

	return clamp01(score)
}

// boldnessScore: very bold claims are disproportionately suspicious.
func boldnessScore(claim game.Claim) float64 {
	return claim.Boldness * claim.Boldness
}

// inconsistencyScore compares the claim's boldness against the mean of the
// last 10 CLAIM moves; a large deviation reads as out of character.
func inconsistencyScore(claim game.Claim, history []game.Move) float64 {
	if len(history) == 0 {
		return 0.5
	}
	var boldnesses []float64
	for _, m := range lastN(history, 10) {
		if m.Action() == string(game.ActionClaim) {
			boldnesses = append(boldnesses, m.Boldness())
		}
	}
	if len(boldnesses) == 0 {
		return 0.5
	}
	deviation := math.Abs(claim.Boldness - mean(boldnesses))
	return math.Min(1.0, deviation*2)
}

// timingScore: a losing streak makes a desperate bluff more likely.
func timingScore(history []game.Move) float64 {
	if len(history) == 0 {
		return 0.5
	}
	recent := lastN(history, 5)
	sum := 0.0
	for _, m := range recent {
		sum += m.TrustChange()
	}
	avg := sum / float64(len(recent))
	switch {
	case avg < -10:
		return 0.75
	case avg < 0:
		return 0.6
	default:
		return 0.4
	}
}

// reputationScore: fraction of past challenges against this player that
// exposed a bluff.
func reputationScore(history []game.Move) float64 {
	var challenges, successful int
	for _, m := range history {
		if m.Action() == string(game.ActionChallenge) {
			challenges++
			if m.Success() {
				successful++
			}
		}
	}
	if challenges == 0 {
		return 0.5
	}
	return float64(successful) / float64(challenges)
}

func lastN(history []game.Move, n int) []game.Move {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
