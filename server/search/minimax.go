package search

import (
	"math"
	"time"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

// CandidateMove is an abstract move considered by the advisor.
type CandidateMove struct {
	Action   game.Action `json:"action"`
	Boldness float64     `json:"boldness,omitempty"`
	IsBluff  bool        `json:"is_bluff,omitempty"`
}

// Result summarizes one advisor search.
type Result struct {
	BestMove      CandidateMove `json:"best_move"`
	Evaluation    float64       `json:"evaluation"`
	NodesExplored int64         `json:"nodes_explored"`
	DepthReached  int           `json:"depth_reached"`
	ElapsedMS     int64         `json:"time_ms"`
}

// Minimax searches the abstract game tree to a fixed depth. Transitions
// use expected trust deltas rather than sampled outcomes, so results are
// deterministic for a given state.
type Minimax struct {
	evaluator *Evaluator
	maxDepth  int
	nodes     int64
}

func NewMinimax(maxDepth int) *Minimax {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	return &Minimax{evaluator: NewEvaluator(), maxDepth: maxDepth}
}

// Search returns the best candidate move and its evaluation for the engine
// player at the given state.
func (s *Minimax) Search(state game.GameState) Result {
	start := time.Now()
	s.nodes = 0

	move, eval := s.minimax(state, s.maxDepth, true)
	if move == nil {
		fallback := defaultMove(state)
		move = &fallback
	}

	return Result{
		BestMove:      *move,
		Evaluation:    eval,
		NodesExplored: s.nodes,
		DepthReached:  s.maxDepth,
		ElapsedMS:     time.Since(start).Milliseconds(),
	}
}

func (s *Minimax) minimax(state game.GameState, depth int, maximizing bool) (*CandidateMove, float64) {
	s.nodes++

	if depth == 0 || terminal(state) {
		return nil, s.evaluator.Evaluate(state)
	}
	moves := generateMoves(state)
	if len(moves) == 0 {
		return nil, s.evaluator.Evaluate(state)
	}

	var best *CandidateMove
	bestEval := math.Inf(-1)
	if !maximizing {
		bestEval = math.Inf(1)
	}
	for i := range moves {
		next := applyMove(state, moves[i], maximizing)
		_, eval := s.minimax(next, depth-1, !maximizing)
		if maximizing && eval > bestEval || !maximizing && eval < bestEval {
			bestEval = eval
			best = &moves[i]
		}
	}
	return best, bestEval
}

func generateMoves(state game.GameState) []CandidateMove {
	switch state.Phase {
	case game.PhaseClaim:
		levels := []float64{0.2, 0.4, 0.6, 0.8}
		moves := make([]CandidateMove, 0, len(levels))
		for _, b := range levels {
			moves = append(moves, CandidateMove{
				Action:   game.ActionClaim,
				Boldness: b,
				IsBluff:  b > 0.5,
			})
		}
		return moves
	case game.PhaseChallenge:
		return []CandidateMove{
			{Action: game.ActionChallenge},
			{Action: game.ActionAccept},
		}
	default:
		return nil
	}
}

// applyMove advances the abstract state with expected-value trust deltas.
// selfMoving says whether the engine player is the one acting.
func applyMove(state game.GameState, move CandidateMove, selfMoving bool) game.GameState {
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
			// Bolder claims fail more often; the expected delta folds the
			// 15-point challenge swing through that probability.
			bluffProb := 0.4 + state.CurrentClaim.Boldness*0.3
			var delta float64
			if move.Action == game.ActionChallenge {
				delta = bluffProb*15 - (1-bluffProb)*15
			} else {
				delta = 5
			}
			if selfMoving {
				next.SelfTrust += int(delta)
			} else {
				next.OpponentTrust += int(delta)
			}
		}
		next.CurrentClaim = nil
	}
	return next
}

func terminal(state game.GameState) bool {
	return state.Round >= 20 ||
		state.SelfTrust >= 100 || state.OpponentTrust >= 100 ||
		state.SelfTrust <= -50 || state.OpponentTrust <= -50
}

func defaultMove(state game.GameState) CandidateMove {
	if state.Phase == game.PhaseChallenge {
		return CandidateMove{Action: game.ActionAccept}
	}
	return CandidateMove{Action: game.ActionClaim, Boldness: 0.5}
}
