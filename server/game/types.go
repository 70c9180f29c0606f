package game

// Phase of a round. Anything else degrades to a WAIT decision.
type Phase string

const (
	PhaseClaim      Phase = "CLAIM"
	PhaseChallenge  Phase = "CHALLENGE"
	PhaseResolution Phase = "RESOLUTION"
)

type Action string

const (
	ActionClaim     Action = "CLAIM"
	ActionChallenge Action = "CHALLENGE"
	ActionAccept    Action = "ACCEPT"
	ActionWait      Action = "WAIT"
)

type ClaimType string

const (
	ClaimInformation ClaimType = "INFORMATION"
	ClaimPrediction  ClaimType = "PREDICTION"
	ClaimAccusation  ClaimType = "ACCUSATION"
	ClaimAlliance    ClaimType = "ALLIANCE"
)

// Move is one past move record. Entries arrive as open key/value maps from
// the caller; accessors default missing or mistyped fields to false/0.
type Move map[string]any

func (m Move) Action() string {
	s, _ := m["action"].(string)
	return s
}

func (m Move) Boldness() float64 { return m.num("boldness") }

func (m Move) TrustChange() float64 { return m.num("trust_change") }

func (m Move) IsBluff() bool {
	b, _ := m["is_bluff"].(bool)
	return b
}

func (m Move) Success() bool {
	b, _ := m["success"].(bool)
	return b
}

func (m Move) num(key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Claim is a player's stated assertion for a round, possibly deceptive.
type Claim struct {
	Description string    `json:"description"`
	Type        ClaimType `json:"type"`
	Boldness    float64   `json:"boldness"`
	IsBluff     bool      `json:"is_bluff"`
}

// GameState is caller-owned input to the engine. The engine reads it and
// never mutates it; MoveHistory is append-only across a game.
type GameState struct {
	Round         int    `json:"round"`
	Phase         Phase  `json:"phase"`
	SelfTrust     int    `json:"player1_trust"`
	OpponentTrust int    `json:"player2_trust"`
	CurrentClaim  *Claim `json:"current_claim,omitempty"`
	MoveHistory   []Move `json:"move_history"`
}

// Decision is the engine's output. Immutable once produced.
type Decision struct {
	Action           Action  `json:"action"`
	Confidence       float64 `json:"confidence"`
	Reasoning        string  `json:"reasoning"`
	ClaimData        *Claim  `json:"claim_data,omitempty"`
	PredictedOutcome float64 `json:"predicted_outcome"`
}

// Outcome is the post-decision result record emitted for offline training.
type Outcome struct {
	Round       int     `json:"round"`
	Phase       string  `json:"phase"`
	Action      string  `json:"action"`
	Confidence  float64 `json:"confidence"`
	Boldness    float64 `json:"boldness"`
	Success     bool    `json:"success"`
	TrustChange float64 `json:"trust_change"`
}
