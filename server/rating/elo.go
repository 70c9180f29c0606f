// Package rating tracks relative skill between the engine and its opponent
// from per-round trust swings, so the service can suggest difficulty
// escalation when it is being outplayed.
package rating

import "math"

type Elo struct {
	Self, Opponent float64
	K              float64 // base K
	Rounds         int     // resolved rounds processed
}

func New(start, k float64) *Elo { return &Elo{Self: start, Opponent: start, K: k} }

func (e *Elo) expect() (es, eo float64) {
	es = 1.0 / (1.0 + math.Pow(10, (e.Opponent-e.Self)/400.0))
	return es, 1.0 - es
}

// UpdateFromRound applies one resolved round. trustDelta is the engine's net
// trust change, positive when the round went its way. Returns applied deltas.
func (e *Elo) UpdateFromRound(trustDelta float64) (dSelf, dOpp float64) {
	es, eo := e.expect()

	// soft score from trust margin; ~12 points of trust is near-decisive
	lambda := 12.0
	sSelf := 0.5 + 0.5*math.Tanh(trustDelta/lambda)
	sOpp := 1.0 - sSelf

	// effective K (tempered by margin and a slow anneal over rounds)
	kEff := e.K * marginScale(trustDelta) * decay(e.Rounds)

	dSelf = kEff * (sSelf - es)
	dOpp = kEff * (sOpp - eo)

	e.Self += dSelf
	e.Opponent += dOpp
	e.Rounds++

	return dSelf, dOpp
}

// Advantage is positive when the engine is rated above its opponent.
func (e *Elo) Advantage() float64 { return e.Self - e.Opponent }

// ---- helpers ----

func marginScale(trustDelta float64) float64 {
	m := math.Abs(trustDelta)
	return 1.0 + 0.35*math.Tanh(m/25.0) // ≤ ~1.35
}

func decay(rounds int) float64 {
	return 1.0 / (1.0 + 0.01*float64(rounds)) // slow anneal
}
