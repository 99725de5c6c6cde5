package calculator

import (
	"math/rand"

	"FinSight/internal/model"
)

// Reference windows for the bundle.
const (
	rsiPeriod       = 14
	bollingerWindow = 20
	bollingerK      = 2.0
	mcHorizonDays   = 30
	mcPaths         = 1000
)

// ComputeBundle computes every indicator for one ticker over one price
// series. Indicators that cannot be computed carry their error in the
// bundle instead of aborting the whole computation; the benchmark may be
// nil, which leaves Beta undefined.
func ComputeBundle(series, benchmark *model.PriceSeries, rng *rand.Rand) *model.IndicatorBundle {
	closes := series.Closes()
	bundle := &model.IndicatorBundle{Symbol: series.Symbol}

	bundle.SMA7.Value, bundle.SMA7.Err = SMA(closes, 7)
	bundle.SMA30.Value, bundle.SMA30.Err = SMA(closes, 30)
	bundle.SMA90.Value, bundle.SMA90.Err = SMA(closes, 90)
	bundle.RSI14.Value, bundle.RSI14.Err = RSI(closes, rsiPeriod)
	bundle.Bollinger, bundle.BollErr = Bollinger(closes, bollingerWindow, bollingerK)
	bundle.MonteCarlo, bundle.MCErr = MonteCarlo(closes, mcHorizonDays, mcPaths, rng)

	if benchmark != nil {
		bundle.Beta.Value, bundle.Beta.Err = Beta(series, benchmark)
	} else {
		bundle.Beta.Err = ErrInsufficientData
	}
	return bundle
}
