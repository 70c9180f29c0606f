// Package engine orchestrates the decision pipeline: claim strategy,
// challenge strategy, and the hooks that feed outcomes back for learning.
package engine

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"

	"github.com/NilmarAxe/strategic-mind-games/server/bluff"
	"github.com/NilmarAxe/strategic-mind-games/server/config"
	"github.com/NilmarAxe/strategic-mind-games/server/game"
	"github.com/NilmarAxe/strategic-mind-games/server/model"
	"github.com/NilmarAxe/strategic-mind-games/server/pattern"
	"github.com/NilmarAxe/strategic-mind-games/server/rating"
)

// OutcomeSink receives post-decision outcome records for offline training.
// The engine only emits; persistence is the sink's problem.
type OutcomeSink interface {
	RecordOutcome(outcome game.Outcome)
}

// Engine computes the AI player's move. Game state is caller-owned and
// passed per call; the only shared state is the active difficulty profile
// and the predictor, both read-mostly behind the lock.
type Engine struct {
	mu        sync.RWMutex
	profiles  map[string]config.Profile
	current   string
	predictor model.Predictor
	detector  *bluff.Detector
	analyzer  *pattern.Analyzer
	skill     *rating.Elo
	sink      OutcomeSink
	rng       *rand.Rand
}

// New builds an engine from config with the given predictor and RNG seed.
// The seed makes bluff scoring and claim selection reproducible in tests.
func New(cfg config.Config, predictor model.Predictor, seed int64) *Engine {
	profiles := cfg.AI.DifficultyLevels
	if len(profiles) == 0 {
		profiles = config.Default().AI.DifficultyLevels
	}
	if predictor == nil {
		predictor = model.Heuristic{}
	}
	return &Engine{
		profiles:  profiles,
		current:   "medium",
		predictor: predictor,
		detector:  bluff.NewDetector(),
		analyzer:  pattern.NewAnalyzer(),
		skill:     rating.New(1500, 24),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// SetOutcomeSink installs the training data collaborator. Nil disables it.
func (e *Engine) SetOutcomeSink(sink OutcomeSink) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

// SetPredictor swaps the predictive backend without touching anything else.
func (e *Engine) SetPredictor(p model.Predictor) {
	if p == nil {
		p = model.Heuristic{}
	}
	e.mu.Lock()
	e.predictor = p
	e.mu.Unlock()
}

// SetDifficulty selects a named profile. Unknown names warn and keep the
// previous profile.
func (e *Engine) SetDifficulty(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.profiles[name]; ok {
		e.current = name
		log.Printf("engine: difficulty set to %s", name)
		return
	}
	log.Printf("engine: unknown difficulty %q, keeping %s", name, e.current)
}

// Difficulty returns the active profile name.
func (e *Engine) Difficulty() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Detector exposes the bluff detector for weight tuning.
func (e *Engine) Detector() *bluff.Detector { return e.detector }

// Skill returns the current self and opponent ratings.
func (e *Engine) Skill() (self, opponent float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.skill.Self, e.skill.Opponent
}

// SuggestedDifficulty escalates when the opponent is outplaying the engine
// and relaxes when the engine dominates. It is advisory; nothing switches
// automatically.
func (e *Engine) SuggestedDifficulty() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	adv := e.skill.Advantage()
	switch {
	case adv < -100:
		return "ruthless"
	case adv < -40:
		return "hard"
	case adv > 100:
		return "easy"
	default:
		return e.current
	}
}

// Analyzer exposes the pattern analyzer.
func (e *Engine) Analyzer() *pattern.Analyzer { return e.analyzer }

// DifficultyForPlayerType maps an external player-type string onto a
// profile name by substring.
func DifficultyForPlayerType(playerType string) string {
	upper := strings.ToUpper(playerType)
	switch {
	case strings.Contains(upper, "EASY"):
		return "easy"
	case strings.Contains(upper, "HARD"):
		return "hard"
	case strings.Contains(upper, "RUTHLESS"):
		return "ruthless"
	default:
		return "medium"
	}
}

// Decide produces a decision for the current phase. Always returns a
// well-formed Decision; unexpected phases degrade to WAIT.
func (e *Engine) Decide(state game.GameState) game.Decision {
	switch game.Phase(strings.ToUpper(string(state.Phase))) {
	case game.PhaseClaim:
		return e.claimDecision(state)
	case game.PhaseChallenge:
		return e.challengeDecision(state)
	default:
		return game.Decision{
			Action:     game.ActionWait,
			Confidence: 1.0,
			Reasoning:  "Waiting for resolution phase to complete",
		}
	}
}

func (e *Engine) claimDecision(state game.GameState) game.Decision {
	e.mu.Lock()
	profile := e.profiles[e.current]
	predictor := e.predictor
	shouldBluff := e.shouldBluffLocked(state, profile.BluffThreshold)
	claimType := e.selectClaimTypeLocked(state.Round, shouldBluff)
	e.mu.Unlock()

	trustDiff := state.OpponentTrust - state.SelfTrust
	roundProgress := float64(state.Round) / 20.0

	boldness := optimalBoldness(trustDiff, roundProgress, profile.RiskTolerance)
	description := e.describeClaim(claimType, boldness)

	features := game.ExtractFeatures(state, boldness)
	successProb := predictor.PredictSuccess(features)

	claim := &game.Claim{
		Description: description,
		Type:        claimType,
		Boldness:    boldness,
		IsBluff:     shouldBluff,
	}

	return game.Decision{
		Action:           game.ActionClaim,
		Confidence:       successProb,
		Reasoning:        claimReasoning(shouldBluff, boldness, successProb, trustDiff),
		ClaimData:        claim,
		PredictedOutcome: estimateOutcome(successProb, boldness),
	}
}

func (e *Engine) challengeDecision(state game.GameState) game.Decision {
	if state.CurrentClaim == nil {
		return game.Decision{
			Action:     game.ActionAccept,
			Confidence: 0.5,
			Reasoning:  "No claim to evaluate",
		}
	}

	e.mu.RLock()
	profile := e.profiles[e.current]
	e.mu.RUnlock()

	bluffProb := e.detector.DetectBluff(*state.CurrentClaim, state.MoveHistory)
	opponent := e.analyzer.Analyze(state.MoveHistory)
	ev := challengeEV(bluffProb)

	shouldChallenge := bluffProb > profile.ChallengeThreshold || ev > 0

	action := game.ActionAccept
	confidence := 1.0 - bluffProb
	if shouldChallenge {
		action = game.ActionChallenge
		confidence = bluffProb
	}

	return game.Decision{
		Action:           action,
		Confidence:       confidence,
		Reasoning:        challengeReasoning(bluffProb, ev, opponent, shouldChallenge),
		PredictedOutcome: ev,
	}
}

// UpdateFromResult feeds the analyzer and the outcome sink with the actual
// result of a past decision. Malformed outcomes default missing fields to
// false/0 and never fail.
func (e *Engine) UpdateFromResult(state game.GameState, decision game.Decision, actual game.Move) {
	boldness := 0.0
	if decision.ClaimData != nil {
		boldness = decision.ClaimData.Boldness
	}
	outcome := game.Outcome{
		Round:       state.Round,
		Phase:       string(state.Phase),
		Action:      string(decision.Action),
		Confidence:  decision.Confidence,
		Boldness:    boldness,
		Success:     actual.Success(),
		TrustChange: actual.TrustChange(),
	}

	if player, _ := actual["player"].(string); player != "" {
		e.analyzer.Record(player, outcome)
	}

	e.mu.Lock()
	e.skill.UpdateFromRound(outcome.TrustChange)
	sink := e.sink
	e.mu.Unlock()
	if sink != nil {
		sink.RecordOutcome(outcome)
	}
}

// optimalBoldness combines risk tolerance with position and endgame
// urgency, clamped to [0.1, 0.95].
func optimalBoldness(trustDiff int, roundProgress, riskTolerance float64) float64 {
	positionModifier := 0.0
	if trustDiff < -20 {
		// Behind: take risks.
		positionModifier = 0.2
	} else if trustDiff > 20 {
		// Ahead: play safe.
		positionModifier = -0.2
	}

	urgencyModifier := 0.0
	if roundProgress > 0.75 {
		urgencyModifier = 0.15 * (roundProgress - 0.75) * 4
	}

	return clamp(riskTolerance+positionModifier+urgencyModifier, 0.1, 0.95)
}

// shouldBluffLocked scores the bluff urge from opponent standing, recent
// success rate, and a random term re-drawn on every call for
// unpredictability. Caller holds mu.
func (e *Engine) shouldBluffLocked(state game.GameState, threshold float64) bool {
	trustFactor := float64(state.OpponentTrust) / 100.0

	recent := state.MoveHistory
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	successRate := 0.0
	if len(recent) > 0 {
		successes := 0
		for _, m := range recent {
			if m.Success() {
				successes++
			}
		}
		successRate = float64(successes) / float64(len(recent))
	}

	score := trustFactor*0.4 + successRate*0.4 + e.rng.Float64()*0.3
	return score > threshold
}

func estimateOutcome(successProb, boldness float64) float64 {
	gain := 10 + boldness*30
	loss := -(15 + boldness*35)
	return successProb*gain + (1-successProb)*loss
}

func challengeEV(bluffProb float64) float64 {
	const successGain, failureLoss = 15.0, -15.0
	return bluffProb*successGain + (1-bluffProb)*failureLoss
}

func claimReasoning(isBluff bool, boldness, successProb float64, trustDiff int) string {
	var parts []string

	switch {
	case trustDiff < -20:
		parts = append(parts, "Behind in trust, taking aggressive stance.")
	case trustDiff > 20:
		parts = append(parts, "Ahead in trust, maintaining pressure.")
	default:
		parts = append(parts, "Competitive position, balanced approach.")
	}

	if isBluff {
		parts = append(parts, fmt.Sprintf("Attempting strategic deception (boldness: %.2f).", boldness))
	} else {
		parts = append(parts, fmt.Sprintf("Making truthful claim (boldness: %.2f).", boldness))
	}

	parts = append(parts, fmt.Sprintf("Predicted success: %.1f%%.", successProb*100))

	return strings.Join(parts, " ")
}

func challengeReasoning(bluffProb, ev float64, opponent pattern.PlayerPattern, challenging bool) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Bluff probability: %.1f%%.", bluffProb*100))
	parts = append(parts, fmt.Sprintf("Expected value: %.1f.", ev))

	if opponent.BluffFrequency > 0.6 {
		parts = append(parts, "Opponent shows high bluff frequency.")
	}

	if challenging {
		parts = append(parts, "Challenge recommended based on analysis.")
	} else {
		parts = append(parts, "Accepting claim is optimal strategy.")
	}

	return strings.Join(parts, " ")
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
