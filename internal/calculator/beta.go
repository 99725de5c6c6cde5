package calculator

import (
	"FinSight/internal/model"
)

// Beta computes the sensitivity of the stock's daily returns to the
// benchmark's daily returns: covariance / benchmark variance. The two
// series are aligned by calendar date first; bars without a counterpart in
// the other series are dropped. Fewer than two aligned return points, or a
// flat benchmark, is an insufficient-data outcome.
func Beta(stock, benchmark *model.PriceSeries) (float64, error) {
	stockCloses, benchCloses := alignByDate(stock, benchmark)
	if len(stockCloses) < 3 {
		return 0, ErrInsufficientData
	}

	sr := dailyReturns(stockCloses)
	br := dailyReturns(benchCloses)
	if len(sr) < 2 || len(sr) != len(br) {
		return 0, ErrInsufficientData
	}

	benchVar := covariance(br, br)
	if benchVar == 0 {
		return 0, ErrInsufficientData
	}
	return covariance(sr, br) / benchVar, nil
}

// alignByDate intersects two bar series on calendar date (UTC), preserving
// chronological order.
func alignByDate(a, b *model.PriceSeries) (aCloses, bCloses []float64) {
	if a == nil || b == nil {
		return nil, nil
	}
	bByDate := make(map[string]float64, len(b.Bars))
	for _, bar := range b.Bars {
		bByDate[bar.Time.UTC().Format("2006-01-02")] = bar.Close
	}
	for _, bar := range a.Bars {
		if c, ok := bByDate[bar.Time.UTC().Format("2006-01-02")]; ok {
			aCloses = append(aCloses, bar.Close)
			bCloses = append(bCloses, c)
		}
	}
	return aCloses, bCloses
}
