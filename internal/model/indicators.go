package model

// MonteCarloResult holds the percentile triple of simulated terminal prices.
type MonteCarloResult struct {
	P5       float64
	P50      float64
	P95      float64
	Horizon  int
	Paths    int
	LastSpot float64
}

// BollingerBands holds the volatility band triple for one window.
type BollingerBands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// IndicatorValue is one computed indicator output; Err is set when the
// series was too short to compute it.
type IndicatorValue struct {
	Value float64
	Err   error
}

// Defined reports whether the indicator could be computed.
func (v IndicatorValue) Defined() bool { return v.Err == nil }

// IndicatorBundle holds all computed technical indicators for one ticker
// over one price window. All fields are derived, never persisted.
type IndicatorBundle struct {
	Symbol     string
	SMA7       IndicatorValue
	SMA30      IndicatorValue
	SMA90      IndicatorValue
	RSI14      IndicatorValue
	Bollinger  *BollingerBands
	BollErr    error
	MonteCarlo *MonteCarloResult
	MCErr      error
	Beta       IndicatorValue
}
