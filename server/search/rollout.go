package search

import (
	"math/rand"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

// Rollout estimates a candidate move's win probability by playing many
// randomized continuations to a terminal state. It complements the minimax
// advisor: minimax takes expected deltas, rollouts sample them.
type Rollout struct {
	rng     *rand.Rand
	samples int
}

func NewRollout(samples int, seed int64) *Rollout {
	if samples <= 0 {
		samples = 400
	}
	return &Rollout{rng: rand.New(rand.NewSource(seed)), samples: samples}
}

// WinProb plays move from state, then uniform random play to the end, and
// returns the fraction of playouts the engine finishes ahead on trust.
func (r *Rollout) WinProb(state game.GameState, move CandidateMove) float64 {
	wins := 0
	for i := 0; i < r.samples; i++ {
		if r.playout(state, move) {
			wins++
		}
	}
	return float64(wins) / float64(r.samples)
}

func (r *Rollout) playout(state game.GameState, first CandidateMove) bool {
	cur := r.applySampled(state, first, true)
	selfMoving := false
	for !terminal(cur) {
		moves := generateMoves(cur)
		if len(moves) == 0 {
			break
		}
		cur = r.applySampled(cur, moves[r.rng.Intn(len(moves))], selfMoving)
		selfMoving = !selfMoving
	}
	return cur.SelfTrust > cur.OpponentTrust
}

// applySampled mirrors applyMove but draws each resolution instead of
// taking the expectation.
func (r *Rollout) applySampled(state game.GameState, move CandidateMove, selfMoving bool) game.GameState {
	next := state
	switch move.Action {
	case game.ActionClaim:
		claim := game.Claim{Boldness: move.Boldness, IsBluff: move.IsBluff}
		next.CurrentClaim = &claim
		next.Phase = game.PhaseChallenge
	case game.ActionChallenge, game.ActionAccept:
		next.Phase = game.PhaseClaim
		next.Round = state.Round + 1
		if state.CurrentClaim != nil {
			successProb := 0.6 - state.CurrentClaim.Boldness*0.3
			successful := r.rng.Float64() < successProb
			var delta int
			if move.Action == game.ActionChallenge {
				delta = 15
				if successful {
					delta = -15
				}
			} else {
				delta = 5
			}
			if selfMoving {
				next.SelfTrust += delta
			} else {
				next.OpponentTrust += delta
			}
		}
		next.CurrentClaim = nil
	}
	return next
}
