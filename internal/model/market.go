package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds a time-ordered sequence of daily bars for one ticker.
// Bars are ascending by timestamp; no gap-filling is guaranteed.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes extracts the close prices in bar order.
func (p *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		closes[i] = b.Close
	}
	return closes
}

// QuoteSnapshot is the most recent reading from one realtime provider.
// Fetched fresh per request, never cached.
type QuoteSnapshot struct {
	Symbol    string
	Source    string
	Price     float64
	Open      float64
	High      float64
	Low       float64
	Volume    float64
	FetchedAt time.Time
}

// Fundamentals holds a provider's full profile record for a ticker.
// Fields holds every key the provider returned; Keys preserves the
// provider's ordering so rendered output is stable.
type Fundamentals struct {
	Symbol string
	Source string
	Keys   []string
	Fields map[string]any
}

// Set appends a field, keeping first-seen key order.
func (f *Fundamentals) Set(key string, value any) {
	if f.Fields == nil {
		f.Fields = make(map[string]any)
	}
	if _, ok := f.Fields[key]; !ok {
		f.Keys = append(f.Keys, key)
	}
	f.Fields[key] = value
}
