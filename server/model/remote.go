package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// RemotePredictor proxies predictions to an external inference service.
// Any transport or decode failure falls back to the heuristic, so a dead
// service degrades the engine instead of breaking it.
type RemotePredictor struct {
	base     string
	client   *http.Client
	fallback Heuristic
}

// NewRemotePredictor builds a client for the service at base (no trailing
// slash needed). The API key, if the service wants one, comes from
// PREDICTOR_API_KEY.
func NewRemotePredictor(base string) *RemotePredictor {
	return &RemotePredictor{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *RemotePredictor) PredictSuccess(features []float64) float64 {
	v, err := p.post("/predict/success", features)
	if err != nil {
		return p.fallback.PredictSuccess(features)
	}
	return clamp(v, 0, 1)
}

func (p *RemotePredictor) PredictValue(features []float64) float64 {
	v, err := p.post("/predict/value", features)
	if err != nil {
		return p.fallback.PredictValue(features)
	}
	return v
}

func (p *RemotePredictor) post(path string, features []float64) (float64, error) {
	payload, err := json.Marshal(map[string]any{"features": features})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequest(http.MethodPost, p.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(os.Getenv("PREDICTOR_API_KEY")); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("predictor: HTTP %d from %s", resp.StatusCode, path)
	}

	var out struct {
		Prediction float64 `json:"prediction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Prediction, nil
}
