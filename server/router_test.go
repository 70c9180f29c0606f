package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NilmarAxe/strategic-mind-games/server/config"
	"github.com/NilmarAxe/strategic-mind-games/server/engine"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	eng := engine.New(config.Default(), nil, 1)
	srv := httptest.NewServer(Router(eng, nil))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp, out
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["difficulty"] != "medium" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestDecideEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, body := postJSON(t, srv.URL+"/ai/decide", `{
		"game_state": {"round": 1, "phase": "CLAIM", "player1_trust": 50, "player2_trust": 50},
		"player_type": "AI_HARD"
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["action"] != "CLAIM" {
		t.Fatalf("claim phase should yield a CLAIM, got %v", body["action"])
	}
	if body["claim_data"] == nil {
		t.Fatal("claim decision needs claim_data")
	}
	conf, ok := body["confidence"].(float64)
	if !ok || conf < 0 || conf > 1 {
		t.Fatalf("confidence: %v", body["confidence"])
	}
}

func TestDecideMissingState(t *testing.T) {
	srv := testServer(t)
	resp, body := postJSON(t, srv.URL+"/ai/decide", `{"player_type": "AI_EASY"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["error"] != "Missing game_state" {
		t.Fatalf("error: %v", body["error"])
	}
}

func TestDecideDefaultsApply(t *testing.T) {
	srv := testServer(t)
	// empty game_state gets round 1, CLAIM phase, 50/50 trust
	resp, body := postJSON(t, srv.URL+"/ai/decide", `{"game_state": {}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["action"] != "CLAIM" {
		t.Fatalf("defaulted state should claim, got %v", body["action"])
	}
}

func TestSetDifficulty(t *testing.T) {
	srv := testServer(t)
	resp, body := postJSON(t, srv.URL+"/ai/set_difficulty", `{"difficulty": "ruthless"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["difficulty"] != "ruthless" {
		t.Fatalf("difficulty: %v", body["difficulty"])
	}

	resp, body = postJSON(t, srv.URL+"/ai/set_difficulty", `{"difficulty": "impossible"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown difficulty should 400, got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "unknown difficulty") {
		t.Fatalf("error: %v", body["error"])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, body := postJSON(t, srv.URL+"/ai/analyze", `{
		"game_state": {"round": 10, "phase": "CLAIM", "player1_trust": 70, "player2_trust": 30}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["recommendation"] != "aggressive" {
		t.Fatalf("trust lead should read aggressive, got %v", body["recommendation"])
	}
	if body["trust_differential"] != float64(-40) {
		t.Fatalf("trust differential: %v", body["trust_differential"])
	}
	sr, ok := body["search"].(map[string]any)
	if !ok {
		t.Fatalf("missing search block: %v", body)
	}
	if sr["best_move"] == nil {
		t.Fatal("search block needs a best move")
	}
	if wp, ok := sr["win_prob"].(float64); !ok || wp < 0 || wp > 1 {
		t.Fatalf("win_prob: %v", sr["win_prob"])
	}
}

func TestResultEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, body := postJSON(t, srv.URL+"/ai/result", `{
		"game_state": {"round": 3, "phase": "CLAIM"},
		"decision": {"action": "CLAIM", "confidence": 0.7},
		"actual_move": {"player": "p2", "success": true, "trust_change": 12}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body["status"] != "recorded" {
		t.Fatalf("body: %v", body)
	}

	resp, _ = postJSON(t, srv.URL+"/ai/result", `{"game_state": {"round": 3}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("partial result should 400, got %d", resp.StatusCode)
	}
}

func TestOutcomesWithoutDatabase(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/api/outcomes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("no db should 503, got %d", resp.StatusCode)
	}
}
