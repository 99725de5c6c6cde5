package market

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"FinSight/internal/model"
	"FinSight/internal/period"
)

// betaLookbackMonths is the benchmark window used for beta alignment.
const betaLookbackMonths = 6

// Snapshot holds every per-ticker fetch outcome for one request. Each field
// is an independent FetchResult; one upstream failing never blocks the
// others.
type Snapshot struct {
	Symbol       string
	Fundamentals model.FetchResult[*model.Fundamentals]
	Financials   model.FetchResult[*model.Fundamentals]
	History      model.FetchResult[*model.PriceSeries]
	Period       *period.Range // nil when the query named no period
	Quotes       []model.FetchResult[*model.QuoteSnapshot]
}

// QuotesError returns the combined failure string when every realtime
// provider failed, naming each one; empty string when at least one
// succeeded.
func (s *Snapshot) QuotesError() string {
	if len(s.Quotes) == 0 {
		return ""
	}
	var parts []string
	for _, q := range s.Quotes {
		if q.OK() {
			return ""
		}
		parts = append(parts, q.Err.Error())
	}
	return strings.Join(parts, "; ")
}

// Gateway wraps the upstream providers and normalizes every call into a
// FetchResult. Fundamentals and history come from one provider, reference
// financials from the other, and realtime quotes from both independently.
type Gateway struct {
	Fundamentals FundamentalsFetcher
	Financials   FundamentalsFetcher
	History      HistoryFetcher
	Quotes       []QuoteFetcher

	BenchmarkSymbol string
	Now             func() time.Time
}

// NewGateway wires the default Yahoo + Polygon provider pair.
func NewGateway(yahoo *YahooFetcher, polygon *PolygonFetcher, benchmark string) *Gateway {
	return &Gateway{
		Fundamentals:    yahoo,
		Financials:      polygon,
		History:         yahoo,
		Quotes:          []QuoteFetcher{yahoo, polygon},
		BenchmarkSymbol: benchmark,
		Now:             time.Now,
	}
}

// Collect fetches everything for one ticker. The period, when non-nil,
// bounds the history query; otherwise the provider's max-available mode is
// used. Point periods are widened backwards so indicators still have bars
// to work with.
func (g *Gateway) Collect(ctx context.Context, symbol string, rng *period.Range) *Snapshot {
	snap := &Snapshot{Symbol: symbol, Period: rng}

	fund, err := g.Fundamentals.FetchFundamentals(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] fundamentals %s: %v", symbol, err)
		snap.Fundamentals = model.Fail[*model.Fundamentals](classify(err, g.Fundamentals.Name()))
	} else {
		snap.Fundamentals = model.Ok(fund)
	}

	fin, err := g.Financials.FetchFundamentals(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] financials %s: %v", symbol, err)
		snap.Financials = model.Fail[*model.Fundamentals](classify(err, g.Financials.Name()))
	} else {
		snap.Financials = model.Ok(fin)
	}

	var series *model.PriceSeries
	if rng != nil {
		from, to := rng.Start, rng.End
		if rng.IsPoint() {
			// A single-day point still needs a window of history behind it.
			from = to.AddDate(0, 0, -120)
		}
		series, err = g.History.FetchHistory(ctx, symbol, from, to)
	} else {
		series, err = g.History.FetchMaxHistory(ctx, symbol)
	}
	if err != nil {
		log.Printf("[WARN] history %s: %v", symbol, err)
		snap.History = model.Fail[*model.PriceSeries](classify(err, g.History.Name()))
	} else {
		snap.History = model.Ok(series)
	}

	for _, qf := range g.Quotes {
		quote, err := qf.FetchQuote(ctx, symbol)
		if err != nil {
			log.Printf("[WARN] quote %s via %s: %v", symbol, qf.Name(), err)
			snap.Quotes = append(snap.Quotes, model.Fail[*model.QuoteSnapshot](classify(err, qf.Name())))
			continue
		}
		snap.Quotes = append(snap.Quotes, model.Ok(quote))
	}

	return snap
}

// FetchBenchmark retrieves the benchmark series for beta computation over
// the fixed lookback window. A nil result means beta is simply omitted.
func (g *Gateway) FetchBenchmark(ctx context.Context) *model.PriceSeries {
	if g.BenchmarkSymbol == "" {
		return nil
	}
	now := g.Now()
	series, err := g.History.FetchHistory(ctx, g.BenchmarkSymbol, now.AddDate(0, -betaLookbackMonths, 0), now)
	if err != nil {
		log.Printf("[WARN] benchmark %s: %v", g.BenchmarkSymbol, err)
		return nil
	}
	return series
}

// classify converts provider errors into typed markers. Providers already
// return *model.FetchError for recognizable conditions; anything else is an
// upstream transport failure.
func classify(err error, source string) *model.FetchError {
	var fe *model.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return model.NewFetchError(model.ErrUpstreamUnavailable, source, "%v", err)
}
