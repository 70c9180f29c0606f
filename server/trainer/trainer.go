// Package trainer generates synthetic decision outcomes and fits the
// predictive model offline. Run it from the server binary with --train.
package trainer

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/NilmarAxe/strategic-mind-games/server/game"
	"github.com/NilmarAxe/strategic-mind-games/server/model"
)

// Sample is one labeled training example.
type Sample struct {
	Features []float64
	Success  float64 // 1 or 0
	Value    float64
}

// Pipeline drives data generation, training and artifact persistence.
type Pipeline struct {
	OutputDir string
	Samples   int
	TestFrac  float64
	rng       *rand.Rand
}

func NewPipeline(outputDir string, samples int, seed int64) *Pipeline {
	if samples <= 0 {
		samples = 15000
	}
	return &Pipeline{
		OutputDir: outputDir,
		Samples:   samples,
		TestFrac:  0.2,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// GenerateSynthetic builds samples from the game's payoff mechanics: trust
// advantage raises success odds, boldness lowers them, momentum nudges them.
func (p *Pipeline) GenerateSynthetic() []Sample {
	out := make([]Sample, 0, p.Samples)
	for i := 0; i < p.Samples; i++ {
		roundProgress := p.rng.Float64()
		myTrust := -50 + p.rng.Float64()*150
		oppTrust := -50 + p.rng.Float64()*150
		boldness := p.rng.Float64()
		historyLen := p.rng.Intn(50)
		momentum := p.rng.Float64()
		volatility := p.rng.Float64()

		trustAdvantage := (myTrust - oppTrust) / 150.0
		riskFactor := boldness * 0.5

		successProb := 0.6 + trustAdvantage*0.3 - riskFactor + (momentum-0.5)*0.1
		successProb = math.Max(0, math.Min(1, successProb))

		success := 0.0
		if p.rng.Float64() < successProb {
			success = 1.0
		}

		value := -(15 + boldness*35)
		if success == 1.0 {
			value = 10 + boldness*30
		}

		features := make([]float64, game.NumFeatures)
		features[game.FeatRoundProgress] = roundProgress
		features[game.FeatSelfTrust] = myTrust / 100.0
		features[game.FeatOpponentTrust] = oppTrust / 100.0
		features[game.FeatBoldness] = boldness
		features[game.FeatHistoryLen] = float64(historyLen) / 50.0
		features[game.FeatMomentum] = momentum
		features[game.FeatVolatility] = volatility

		out = append(out, Sample{Features: features, Success: success, Value: value})
	}
	return out
}

// Report summarizes the held-out evaluation of a trained model.
type Report struct {
	TrainSamples int
	TestSamples  int
	Accuracy     float64
	AccuracyLow  float64
	AccuracyHigh float64
	MeanAbsErr   float64
}

// Run executes the full pipeline: generate, split, train, evaluate, save.
func (p *Pipeline) Run(recorded []game.Outcome) (*model.Trained, Report, error) {
	samples := p.GenerateSynthetic()
	samples = append(samples, fromOutcomes(recorded)...)
	log.Printf("trainer: %d samples (%d recorded), success rate %.1f%%",
		len(samples), len(recorded), 100*successRate(samples))

	p.rng.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
	split := len(samples) - int(float64(len(samples))*p.TestFrac)
	train, test := samples[:split], samples[split:]

	X := make([][]float64, len(train))
	y := make([]float64, len(train))
	v := make([]float64, len(train))
	for i, s := range train {
		X[i], y[i], v[i] = s.Features, s.Success, s.Value
	}

	m := model.NewTrained()
	if err := m.Train(X, y, v); err != nil {
		return nil, Report{}, fmt.Errorf("train: %w", err)
	}

	rep := evaluate(m, test)
	rep.TrainSamples = len(train)
	log.Printf("trainer: test accuracy %.3f (95%% CI %.3f-%.3f), value MAE %.2f",
		rep.Accuracy, rep.AccuracyLow, rep.AccuracyHigh, rep.MeanAbsErr)

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return nil, Report{}, err
	}
	modelPath := filepath.Join(p.OutputDir, "trained_model.json")
	scalerPath := filepath.Join(p.OutputDir, "scaler.json")
	if err := m.Save(modelPath, scalerPath); err != nil {
		return nil, Report{}, fmt.Errorf("save artifacts: %w", err)
	}
	log.Printf("trainer: artifacts saved to %s", p.OutputDir)
	return m, rep, nil
}

// fromOutcomes converts recorded decision outcomes into training samples.
// Only the dimensions an outcome actually carries are filled; the rest stay
// at their neutral defaults.
func fromOutcomes(outcomes []game.Outcome) []Sample {
	out := make([]Sample, 0, len(outcomes))
	for _, o := range outcomes {
		features := make([]float64, game.NumFeatures)
		features[game.FeatRoundProgress] = float64(o.Round) / 20.0
		features[game.FeatSelfTrust] = 0.5
		features[game.FeatOpponentTrust] = 0.5
		features[game.FeatBoldness] = o.Boldness
		features[game.FeatHistoryLen] = float64(o.Round) / 50.0
		features[game.FeatMomentum] = 0.5
		features[game.FeatVolatility] = 0.5

		success := 0.0
		if o.Success {
			success = 1.0
		}
		out = append(out, Sample{Features: features, Success: success, Value: o.TrustChange})
	}
	return out
}

func evaluate(m *model.Trained, test []Sample) Report {
	var rep Report
	rep.TestSamples = len(test)
	if len(test) == 0 {
		return rep
	}
	correct := 0
	absErr := 0.0
	for _, s := range test {
		p := m.PredictSuccess(s.Features)
		pred := 0.0
		if p > 0.5 {
			pred = 1.0
		}
		if pred == s.Success {
			correct++
		}
		absErr += math.Abs(m.PredictValue(s.Features) - s.Value)
	}
	rep.Accuracy = float64(correct) / float64(len(test))
	rep.AccuracyLow, rep.AccuracyHigh = WilsonCI95(correct, 0, len(test))
	rep.MeanAbsErr = absErr / float64(len(test))
	return rep
}

func successRate(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.Success
	}
	return sum / float64(len(samples))
}

// WilsonCI95 for a Bernoulli rate, with half weight for ties.
func WilsonCI95(wins, ties, total int) (low, hi float64) {
	if total <= 0 {
		return 0, 1
	}
	z := 1.96
	n := float64(total)
	p := (float64(wins) + 0.5*float64(ties)) / n
	den := 1 + (z*z)/n
	center := p + (z*z)/(2*n)
	half := z * math.Sqrt((p*(1-p))/n+(z*z)/(4*n*n))
	return (center - half) / den, (center + half) / den
}
