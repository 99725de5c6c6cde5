package market

import (
	"context"
	"time"

	"FinSight/internal/model"
)

// FundamentalsFetcher retrieves the full fundamentals/profile record for a
// ticker.
type FundamentalsFetcher interface {
	FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
	Name() string
}

// HistoryFetcher retrieves ordered daily price series. FetchMaxHistory is
// the provider's "max available history" query mode.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, symbol string, from, to time.Time) (*model.PriceSeries, error)
	FetchMaxHistory(ctx context.Context, symbol string) (*model.PriceSeries, error)
	Name() string
}

// QuoteFetcher retrieves the most recent quote snapshot from one provider.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error)
	Name() string
}
