package game

import "math"

// Feature vector layout. The normalization constants (20, 100, 50, 50, 20)
// are fixed for numeric parity with trained model artifacts; changing them
// invalidates any saved model.
const (
	FeatRoundProgress = iota
	FeatOpponentTrust
	FeatSelfTrust
	FeatBoldness
	FeatHistoryLen
	FeatMomentum
	FeatVolatility
	NumFeatures
)

// ExtractFeatures derives the 7-element model input from game state and a
// candidate boldness.
func ExtractFeatures(state GameState, boldness float64) []float64 {
	f := make([]float64, NumFeatures)
	f[FeatRoundProgress] = float64(state.Round) / 20.0
	f[FeatOpponentTrust] = float64(state.OpponentTrust) / 100.0
	f[FeatSelfTrust] = float64(state.SelfTrust) / 100.0
	f[FeatBoldness] = boldness
	f[FeatHistoryLen] = float64(len(state.MoveHistory)) / 50.0
	f[FeatMomentum] = momentum(state.MoveHistory)
	f[FeatVolatility] = volatility(state.MoveHistory)
	return f
}

// momentum maps the mean trust change over the last 5 moves into [0,1]
// around a 0.5 neutral point.
func momentum(history []Move) float64 {
	if len(history) == 0 {
		return 0.5
	}
	recent := lastN(history, 5)
	sum := 0.0
	for _, m := range recent {
		sum += m.TrustChange()
	}
	avg := sum / float64(len(recent))
	return 0.5 + avg/50.0
}

// volatility is the capped stddev of trust changes over the last 10 moves.
func volatility(history []Move) float64 {
	if len(history) < 3 {
		return 0.5
	}
	recent := lastN(history, 10)
	changes := make([]float64, len(recent))
	for i, m := range recent {
		changes[i] = m.TrustChange()
	}
	return math.Min(1.0, stddev(changes)/20.0)
}

func lastN(history []Move, n int) []Move {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the population standard deviation.
func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	mu := mean(vals)
	ss := 0.0
	for _, v := range vals {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}
