package engine

import "github.com/NilmarAxe/strategic-mind-games/server/game"

var claimTypes = []game.ClaimType{
	game.ClaimInformation,
	game.ClaimPrediction,
	game.ClaimAccusation,
	game.ClaimAlliance,
}

var claimTemplates = map[game.ClaimType][]string{
	game.ClaimInformation: {
		"I have reliable intelligence about the situation",
		"My sources confirm a significant development",
		"I've discovered critical information that changes everything",
	},
	game.ClaimPrediction: {
		"I predict the next phase will favor my position",
		"Based on my analysis, I foresee a major shift",
		"The patterns indicate an inevitable outcome",
	},
	game.ClaimAccusation: {
		"Your previous claim was clearly fabricated",
		"I can prove your last statement was false",
		"The evidence contradicts your position",
	},
	game.ClaimAlliance: {
		"I propose we collaborate on this matter",
		"Our interests align in this situation",
		"A strategic partnership would benefit us both",
	},
}

// claimTypeWeights returns the draw weights for the four claim types at a
// round, reweighted for bluffs and normalized to sum to 1. Order matches
// claimTypes.
func claimTypeWeights(round int, isBluff bool) [4]float64 {
	var weights [4]float64
	switch {
	case round <= 5:
		// Early game: information claims.
		weights = [4]float64{0.5, 0.3, 0.1, 0.1}
	case round <= 15:
		// Mid game: mix of types.
		weights = [4]float64{0.3, 0.3, 0.2, 0.2}
	default:
		// Late game: aggressive claims.
		weights = [4]float64{0.2, 0.3, 0.4, 0.1}
	}

	if isBluff {
		// Information bluffs are harder to verify; accusations are easier
		// to disprove.
		weights[0] *= 1.5
		weights[2] *= 0.5
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// selectClaimTypeLocked draws a claim type from the round-dependent
// distribution. Caller holds mu (for the rng).
func (e *Engine) selectClaimTypeLocked(round int, isBluff bool) game.ClaimType {
	weights := claimTypeWeights(round, isBluff)
	r := e.rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return claimTypes[i]
		}
	}
	return claimTypes[len(claimTypes)-1]
}

// describeClaim picks a random template for the type and appends an
// intensity suffix gated on boldness.
func (e *Engine) describeClaim(claimType game.ClaimType, boldness float64) string {
	templates, ok := claimTemplates[claimType]
	if !ok {
		templates = claimTemplates[game.ClaimInformation]
	}

	e.mu.Lock()
	base := templates[e.rng.Intn(len(templates))]
	e.mu.Unlock()

	switch {
	case boldness > 0.7:
		return base + " with absolute certainty"
	case boldness > 0.4:
		return base + " with strong confidence"
	default:
		return base
	}
}
