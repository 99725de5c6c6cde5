package market

import (
	"context"
	"time"

	"FinSight/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Any of the error fields, when set, is returned instead of the payload.
type MockFetcher struct {
	Source       string
	Price        float64
	Bars         []model.OHLCV
	Fundamentals *model.Fundamentals

	FundamentalsErr error
	HistoryErr      error
	QuoteErr        error
}

func (m *MockFetcher) Name() string {
	if m.Source != "" {
		return m.Source
	}
	return "mock"
}

func (m *MockFetcher) FetchFundamentals(_ context.Context, symbol string) (*model.Fundamentals, error) {
	if m.FundamentalsErr != nil {
		return nil, m.FundamentalsErr
	}
	if m.Fundamentals != nil {
		return m.Fundamentals, nil
	}
	f := &model.Fundamentals{Symbol: symbol, Source: m.Name()}
	f.Set("marketCap", 2500000000.0)
	f.Set("sector", "Technology")
	return f, nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, _, _ time.Time) (*model.PriceSeries, error) {
	return m.history(symbol)
}

func (m *MockFetcher) FetchMaxHistory(_ context.Context, symbol string) (*model.PriceSeries, error) {
	return m.history(symbol)
}

func (m *MockFetcher) history(symbol string) (*model.PriceSeries, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	bars := m.Bars
	if bars == nil {
		bars = GenerateBars(m.Price, 120)
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.QuoteSnapshot, error) {
	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	return &model.QuoteSnapshot{
		Symbol:    symbol,
		Source:    m.Name(),
		Price:     m.Price,
		Open:      m.Price * 0.999,
		High:      m.Price * 1.005,
		Low:       m.Price * 0.995,
		Volume:    1000000,
		FetchedAt: time.Now(),
	}, nil
}

// GenerateBars builds a gently drifting synthetic daily series.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
