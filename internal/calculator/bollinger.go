package calculator

import (
	"errors"

	"FinSight/internal/model"
)

// Bollinger computes Bollinger Bands over the trailing `window` closes.
// The middle band is the SMA of the same window; upper/lower sit at
// ±k population standard deviations around it.
func Bollinger(closes []float64, window int, k float64) (*model.BollingerBands, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	if len(closes) < window {
		return nil, ErrInsufficientData
	}

	tail := closes[len(closes)-window:]
	middle := mean(tail)
	sd := stddev(tail)

	return &model.BollingerBands{
		Upper:  middle + k*sd,
		Middle: middle,
		Lower:  middle - k*sd,
	}, nil
}
