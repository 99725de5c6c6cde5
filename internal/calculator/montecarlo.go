package calculator

import (
	"errors"
	"math/rand"
	"sort"

	"FinSight/internal/model"
)

// MonteCarlo simulates `paths` independent random walks of `horizon` days
// starting from the last close. Each day the price is multiplied by
// (1 + draw) where draw ~ Normal(μ, σ) estimated from the historical daily
// returns. Returns the 5th/50th/95th percentiles of the terminal prices.
// The random source is injected so callers can seed it for reproducibility.
func MonteCarlo(closes []float64, horizon, paths int, rng *rand.Rand) (*model.MonteCarloResult, error) {
	if horizon <= 0 || paths <= 0 {
		return nil, errors.New("horizon and paths must be positive")
	}
	returns := dailyReturns(closes)
	if len(returns) < 2 {
		return nil, ErrInsufficientData
	}

	mu := mean(returns)
	sigma := stddev(returns)
	last := closes[len(closes)-1]

	terminals := make([]float64, paths)
	for p := 0; p < paths; p++ {
		price := last
		for d := 0; d < horizon; d++ {
			price *= 1 + (mu + sigma*rng.NormFloat64())
			if price < 0 {
				price = 0
			}
		}
		terminals[p] = price
	}
	sort.Float64s(terminals)

	return &model.MonteCarloResult{
		P5:       percentile(terminals, 0.05),
		P50:      percentile(terminals, 0.50),
		P95:      percentile(terminals, 0.95),
		Horizon:  horizon,
		Paths:    paths,
		LastSpot: last,
	}, nil
}

// percentile reads from a sorted slice using nearest-rank interpolation.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
