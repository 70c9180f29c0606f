package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NilmarAxe/strategic-mind-games/server/engine"
	"github.com/NilmarAxe/strategic-mind-games/server/game"
	"github.com/NilmarAxe/strategic-mind-games/server/search"
	"github.com/NilmarAxe/strategic-mind-games/server/store"
)

// gameStateBody distinguishes absent fields from zero values so callers can
// omit what they don't track.
type gameStateBody struct {
	Round        *int        `json:"round"`
	Phase        *string     `json:"phase"`
	Player1Trust *int        `json:"player1_trust"`
	Player2Trust *int        `json:"player2_trust"`
	CurrentClaim *game.Claim `json:"current_claim"`
	MoveHistory  []game.Move `json:"move_history"`
}

func (b gameStateBody) state() game.GameState {
	st := game.GameState{
		Round:         1,
		Phase:         game.PhaseClaim,
		SelfTrust:     50,
		OpponentTrust: 50,
		CurrentClaim:  b.CurrentClaim,
		MoveHistory:   b.MoveHistory,
	}
	if b.Round != nil {
		st.Round = *b.Round
	}
	if b.Phase != nil {
		st.Phase = game.Phase(*b.Phase)
	}
	if b.Player1Trust != nil {
		st.SelfTrust = *b.Player1Trust
	}
	if b.Player2Trust != nil {
		st.OpponentTrust = *b.Player2Trust
	}
	return st
}

// Router wires the decision endpoints. db may be nil (no persistence).
func Router(eng *engine.Engine, db *store.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"status":     "ok",
			"service":    "Strategic Mind AI Engine",
			"difficulty": eng.Difficulty(),
		})
	})

	// Skill tracking: ratings from resolved rounds plus an advisory
	// difficulty suggestion.
	r.Get("/ai/skill", func(w http.ResponseWriter, _ *http.Request) {
		self, opponent := eng.Skill()
		writeJSON(w, map[string]any{
			"self_rating":          self,
			"opponent_rating":      opponent,
			"suggested_difficulty": eng.SuggestedDifficulty(),
		})
	})

	// Main decision endpoint: game state in, optimal move out.
	r.Post("/ai/decide", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GameState  *gameStateBody `json:"game_state"`
			PlayerType string         `json:"player_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if body.GameState == nil {
			writeError(w, http.StatusBadRequest, "Missing game_state")
			return
		}
		playerType := body.PlayerType
		if playerType == "" {
			playerType = "AI_MEDIUM"
		}
		eng.SetDifficulty(engine.DifficultyForPlayerType(playerType))

		state := body.GameState.state()
		decision := eng.Decide(state)
		log.Printf("decision: %s (confidence %.2f)", decision.Action, decision.Confidence)

		if db != nil {
			if err := db.InsertDecisionLog(r.Context(), state.Round, string(state.Phase), eng.Difficulty(), decision); err != nil {
				log.Printf("decision log: %v", err)
			}
		}
		writeJSON(w, decision)
	})

	r.Post("/ai/set_difficulty", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Difficulty string `json:"difficulty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if body.Difficulty == "" {
			body.Difficulty = "medium"
		}
		eng.SetDifficulty(body.Difficulty)
		active := eng.Difficulty()
		if active != body.Difficulty {
			writeError(w, http.StatusBadRequest, "unknown difficulty: "+body.Difficulty)
			return
		}
		writeJSON(w, map[string]any{"status": "ok", "difficulty": active})
	})

	// Strategic insight: positional analysis plus a lookahead recommendation.
	r.Post("/ai/analyze", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GameState *gameStateBody `json:"game_state"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if body.GameState == nil {
			writeError(w, http.StatusBadRequest, "Missing game_state")
			return
		}
		state := body.GameState.state()

		recommendation := "defensive"
		if state.OpponentTrust < state.SelfTrust {
			recommendation = "aggressive"
		}

		result := search.NewMinimax(0).Search(state)
		winProb := search.NewRollout(0, time.Now().UnixNano()).WinProb(state, result.BestMove)
		writeJSON(w, map[string]any{
			"trust_differential": state.OpponentTrust - state.SelfTrust,
			"round_progress":     float64(state.Round) / 20.0,
			"phase":              state.Phase,
			"recommendation":     recommendation,
			"search": map[string]any{
				"best_move":      result.BestMove,
				"evaluation":     result.Evaluation,
				"win_prob":       winProb,
				"nodes_explored": result.NodesExplored,
				"depth_reached":  result.DepthReached,
				"elapsed_ms":     result.ElapsedMS,
			},
		})
	})

	// Resolution feedback: ties a served decision to what actually happened.
	r.Post("/ai/result", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GameState  *gameStateBody `json:"game_state"`
			Decision   *game.Decision `json:"decision"`
			ActualMove game.Move      `json:"actual_move"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if body.GameState == nil || body.Decision == nil || body.ActualMove == nil {
			writeError(w, http.StatusBadRequest, "need game_state, decision and actual_move")
			return
		}
		eng.UpdateFromResult(body.GameState.state(), *body.Decision, body.ActualMove)
		writeJSON(w, map[string]any{"status": "recorded"})
	})

	// Recent recorded outcomes, newest first.
	r.Get("/api/outcomes", func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeError(w, http.StatusServiceUnavailable, "no database configured")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := db.LoadOutcomes(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, map[string]any{"rows": rows})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
