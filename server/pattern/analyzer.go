// Package pattern derives behavioral profiles from move histories and
// predicts likely next moves.
package pattern

import (
	"math"
	"sync"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

// PlayerPattern is a derived, non-persistent snapshot of a player's
// tendencies. Every field is in [0,1]; 0.5 means no signal.
type PlayerPattern struct {
	BluffFrequency    float64 `json:"bluff_frequency"`
	AggressionLevel   float64 `json:"aggression_level"`
	Consistency       float64 `json:"consistency"`
	RiskPreference    float64 `json:"risk_preference"`
	ChallengeTendency float64 `json:"challenge_tendency"`
	Adaptability      float64 `json:"adaptability"`
}

// Prediction is the analyzer's guess at the opponent's next move.
type Prediction struct {
	LikelyAction      game.Action `json:"likely_action"`
	PredictedBoldness float64     `json:"predicted_boldness,omitempty"`
	LikelyBluff       bool        `json:"likely_bluff,omitempty"`
	Confidence        float64     `json:"confidence"`
}

const historyWindow = 20

// Analyzer recomputes patterns fresh from the full history on every query.
// It also keeps a bounded per-player buffer of observed outcomes for
// future incremental use; the buffer does not feed Analyze today.
type Analyzer struct {
	mu      sync.Mutex
	buffers map[string][]game.Outcome
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{buffers: make(map[string][]game.Outcome)}
}

func defaultPattern() PlayerPattern {
	return PlayerPattern{
		BluffFrequency:    0.5,
		AggressionLevel:   0.5,
		Consistency:       0.5,
		RiskPreference:    0.5,
		ChallengeTendency: 0.5,
		Adaptability:      0.5,
	}
}

// Analyze derives the full behavioral profile from a move history.
func (a *Analyzer) Analyze(history []game.Move) PlayerPattern {
	if len(history) == 0 {
		return defaultPattern()
	}
	return PlayerPattern{
		BluffFrequency:    bluffFrequency(history),
		AggressionLevel:   aggression(history),
		Consistency:       consistency(history),
		RiskPreference:    riskPreference(history),
		ChallengeTendency: challengeTendency(history),
		Adaptability:      adaptability(history),
	}
}

// PredictNextMove guesses the opponent's move for the given phase.
// trustDifferential is opponent minus self, from the predicted player's
// point of view.
func (a *Analyzer) PredictNextMove(history []game.Move, phase game.Phase, trustDifferential int) Prediction {
	p := a.Analyze(history)

	if phase == game.PhaseClaim {
		boldness := p.AggressionLevel
		if trustDifferential < -20 {
			boldness += 0.2
		}
		return Prediction{
			LikelyAction:      game.ActionClaim,
			PredictedBoldness: clamp(boldness, 0.1, 0.9),
			LikelyBluff:       p.BluffFrequency > 0.5,
			Confidence:        0.6 + p.Consistency*0.3,
		}
	}

	action := game.ActionAccept
	if p.ChallengeTendency > 0.5 {
		action = game.ActionChallenge
	}
	return Prediction{
		LikelyAction: action,
		Confidence:   0.5 + p.Consistency*0.4,
	}
}

// Record appends an outcome to the named player's bounded buffer.
func (a *Analyzer) Record(player string, outcome game.Outcome) {
	if player == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	buf := append(a.buffers[player], outcome)
	if len(buf) > historyWindow {
		buf = buf[len(buf)-historyWindow:]
	}
	a.buffers[player] = buf
}

// Recorded returns a copy of the buffered outcomes for a player.
func (a *Analyzer) Recorded(player string) []game.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf := a.buffers[player]
	out := make([]game.Outcome, len(buf))
	copy(out, buf)
	return out
}

func bluffFrequency(history []game.Move) float64 {
	var claims, bluffs int
	for _, m := range history {
		if m.Action() == string(game.ActionClaim) {
			claims++
			if m.IsBluff() {
				bluffs++
			}
		}
	}
	if claims == 0 {
		return 0.5
	}
	return float64(bluffs) / float64(claims)
}

func aggression(history []game.Move) float64 {
	var boldnesses []float64
	for _, m := range history {
		if m.Action() == string(game.ActionClaim) {
			boldnesses = append(boldnesses, m.Boldness())
		}
	}
	if len(boldnesses) == 0 {
		return 0.5
	}
	return mean(boldnesses)
}

// consistency: low boldness spread reads as a steady strategy. Needs at
// least 5 total moves to say anything.
func consistency(history []game.Move) float64 {
	if len(history) < 5 {
		return 0.5
	}
	var boldnesses []float64
	for _, m := range history {
		if m.Action() == string(game.ActionClaim) {
			boldnesses = append(boldnesses, m.Boldness())
		}
	}
	if len(boldnesses) == 0 {
		return 0.5
	}
	return 1.0 - math.Min(1.0, stddev(boldnesses)*2)
}

func riskPreference(history []game.Move) float64 {
	recent := lastN(history, 10)
	if len(recent) == 0 {
		return 0.5
	}
	scores := make([]float64, 0, len(recent))
	for _, m := range recent {
		switch m.Action() {
		case string(game.ActionClaim):
			scores = append(scores, m.Boldness())
		case string(game.ActionChallenge):
			scores = append(scores, 0.7)
		default:
			scores = append(scores, 0.3)
		}
	}
	return mean(scores)
}

func challengeTendency(history []game.Move) float64 {
	var challenges, decisions int
	for _, m := range history {
		switch m.Action() {
		case string(game.ActionChallenge):
			challenges++
			decisions++
		case string(game.ActionAccept):
			decisions++
		}
	}
	if decisions == 0 {
		return 0.5
	}
	return float64(challenges) / float64(decisions)
}

// adaptability counts 5-move windows where a negative first trust change
// was followed by a boldness shift of more than 0.2 between the window's
// first and last claim.
func adaptability(history []game.Move) float64 {
	if len(history) < 10 {
		return 0.5
	}
	windows := len(history) / 5
	adaptations := 0
	for i := 0; i < windows; i++ {
		window := history[i*5 : i*5+5]
		var boldnesses []float64
		for _, m := range window {
			if m.Action() == string(game.ActionClaim) {
				boldnesses = append(boldnesses, m.Boldness())
			}
		}
		if len(boldnesses) < 2 {
			continue
		}
		if window[0].TrustChange() < 0 &&
			math.Abs(boldnesses[0]-boldnesses[len(boldnesses)-1]) > 0.2 {
			adaptations++
		}
	}
	if windows == 0 {
		return 0.5
	}
	return math.Min(1.0, float64(adaptations)/float64(windows))
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

func stddev(vals []float64) float64 {
	mu := mean(vals)
	ss := 0.0
	for _, v := range vals {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
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
