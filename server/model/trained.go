package model

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
)

// Scaler standardizes features to zero mean / unit variance, fitted on the
// training set. Stored alongside the model weights so inference matches
// training exactly.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit computes per-column mean and stddev over the sample matrix.
func (s *Scaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for _, row := range X {
			sum += row[j]
		}
		mu := sum / float64(len(X))
		ss := 0.0
		for _, row := range X {
			d := row[j] - mu
			ss += d * d
		}
		s.Mean[j] = mu
		s.Std[j] = math.Sqrt(ss / float64(len(X)))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
}

func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(s.Mean) != len(features) || len(s.Std) != len(features) {
		return nil, fmt.Errorf("scaler fitted on %d features, got %d", len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for j := range features {
		out[j] = (features[j] - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// Trained is a logistic-regression success classifier plus a linear value
// regressor over standardized features. Zero value is untrained; every
// inference path falls back to the heuristic until Train or Load succeeds.
type Trained struct {
	Scaler     Scaler    `json:"scaler"`
	ClfWeights []float64 `json:"clf_weights"`
	ClfBias    float64   `json:"clf_bias"`
	RegWeights []float64 `json:"reg_weights"`
	RegBias    float64   `json:"reg_bias"`
	Iterations int       `json:"iterations"`
	LearnRate  float64   `json:"learn_rate"`
	fallback   Heuristic
}

// NewTrained returns an untrained model with default hyperparameters.
func NewTrained() *Trained {
	return &Trained{Iterations: 400, LearnRate: 0.1}
}

func (t *Trained) ready() bool {
	return len(t.ClfWeights) == game.NumFeatures && len(t.Scaler.Mean) == game.NumFeatures
}

func (t *Trained) PredictSuccess(features []float64) float64 {
	if !t.ready() {
		return t.fallback.PredictSuccess(features)
	}
	x, err := t.Scaler.Transform(features)
	if err != nil {
		log.Printf("model: inference failed (%v), using heuristic", err)
		return t.fallback.PredictSuccess(features)
	}
	p := sigmoid(dot(t.ClfWeights, x) + t.ClfBias)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return t.fallback.PredictSuccess(features)
	}
	return p
}

func (t *Trained) PredictValue(features []float64) float64 {
	if !t.ready() || len(t.RegWeights) != game.NumFeatures {
		return t.fallback.PredictValue(features)
	}
	x, err := t.Scaler.Transform(features)
	if err != nil {
		log.Printf("model: value inference failed (%v), using heuristic", err)
		return t.fallback.PredictValue(features)
	}
	v := dot(t.RegWeights, x) + t.RegBias
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return t.fallback.PredictValue(features)
	}
	return v
}

// Train fits the classifier on (X, y) and, when values is non-nil, the
// value regressor on (X, values). y entries are 0/1 success labels.
func (t *Trained) Train(X [][]float64, y []float64, values []float64) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("bad training shape: %d samples, %d labels", len(X), len(y))
	}
	if values != nil && len(values) != len(X) {
		return fmt.Errorf("bad values shape: %d samples, %d values", len(X), len(values))
	}
	cols := len(X[0])

	t.Scaler.Fit(X)
	scaled := make([][]float64, len(X))
	for i, row := range X {
		s, err := t.Scaler.Transform(row)
		if err != nil {
			return err
		}
		scaled[i] = s
	}

	// Logistic regression, full-batch gradient descent.
	t.ClfWeights = make([]float64, cols)
	t.ClfBias = 0
	n := float64(len(scaled))
	for it := 0; it < t.Iterations; it++ {
		gradW := make([]float64, cols)
		gradB := 0.0
		for i, x := range scaled {
			p := sigmoid(dot(t.ClfWeights, x) + t.ClfBias)
			err := p - y[i]
			for j := range x {
				gradW[j] += err * x[j]
			}
			gradB += err
		}
		for j := range t.ClfWeights {
			t.ClfWeights[j] -= t.LearnRate * gradW[j] / n
		}
		t.ClfBias -= t.LearnRate * gradB / n
	}

	// Linear regression for the value head.
	if values != nil {
		t.RegWeights = make([]float64, cols)
		t.RegBias = 0
		for it := 0; it < t.Iterations; it++ {
			gradW := make([]float64, cols)
			gradB := 0.0
			for i, x := range scaled {
				err := dot(t.RegWeights, x) + t.RegBias - values[i]
				for j := range x {
					gradW[j] += err * x[j]
				}
				gradB += err
			}
			for j := range t.RegWeights {
				t.RegWeights[j] -= t.LearnRate * gradW[j] / n
			}
			t.RegBias -= t.LearnRate * gradB / n
		}
	}

	return nil
}

// Save writes model weights and the fitted scaler as JSON artifacts.
func (t *Trained) Save(modelPath, scalerPath string) error {
	if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(modelPath, b, 0o644); err != nil {
		return err
	}
	sb, err := json.MarshalIndent(t.Scaler, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(scalerPath, sb, 0o644)
}

// Load reads artifacts written by Save. On any failure the model stays
// untrained and callers keep getting heuristic predictions; Load reports
// the error so the caller can log it, but nothing downstream breaks.
func Load(modelPath, scalerPath string) (*Trained, error) {
	b, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, err
	}
	t := NewTrained()
	if err := json.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("corrupt model artifact %s: %w", modelPath, err)
	}
	if scalerPath != "" {
		if sb, err := os.ReadFile(scalerPath); err == nil {
			var s Scaler
			if err := json.Unmarshal(sb, &s); err != nil {
				return nil, fmt.Errorf("corrupt scaler artifact %s: %w", scalerPath, err)
			}
			t.Scaler = s
		}
	}
	if !t.ready() {
		return nil, fmt.Errorf("model artifact %s is incomplete", modelPath)
	}
	return t, nil
}

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
