package calculator

import "errors"

// ErrInsufficientData is returned when a series is shorter than the
// indicator's window.
var ErrInsufficientData = errors.New("not enough data")

// SMA computes the simple moving average of the last `window` closes.
func SMA(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(closes) < window {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(closes) - window; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(window), nil
}
