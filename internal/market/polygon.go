package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"FinSight/internal/model"
)

const polygonBaseURL = "https://api.polygon.io"

// PolygonFetcher talks to the Polygon.io REST API: reference financials,
// daily aggregates and the last-trade endpoint. The API key travels as a
// query parameter.
type PolygonFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPolygonFetcher creates a fetcher with optional proxy support.
func NewPolygonFetcher(apiKey, proxyURL string) *PolygonFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &PolygonFetcher{
		BaseURL: polygonBaseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func (f *PolygonFetcher) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apiKey", f.APIKey)
	u := fmt.Sprintf("%s%s?%s", f.BaseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polygon fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polygon read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.NewFetchError(model.ErrUpstreamUnavailable, f.Name(),
			"status %d fetching %s", resp.StatusCode, path)
	}
	return body, nil
}

// FetchFundamentals retrieves the most recent reference financials record.
func (f *PolygonFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	q := url.Values{}
	q.Set("ticker", symbol)
	q.Set("limit", "1")
	body, err := f.get(ctx, "/vX/reference/financials", q)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []struct {
			FiscalPeriod string `json:"fiscal_period"`
			FiscalYear   string `json:"fiscal_year"`
			StartDate    string `json:"start_date"`
			EndDate      string `json:"end_date"`
			CompanyName  string `json:"company_name"`
			Financials   map[string]map[string]struct {
				Label string   `json:"label"`
				Unit  string   `json:"unit"`
				Value *float64 `json:"value"`
			} `json:"financials"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("polygon decode financials: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "no data found for %s", symbol)
	}

	res := payload.Results[0]
	fund := &model.Fundamentals{Symbol: symbol, Source: f.Name()}
	if res.CompanyName != "" {
		fund.Set("company_name", res.CompanyName)
	}
	if res.FiscalPeriod != "" {
		fund.Set("fiscal_period", res.FiscalPeriod+" "+res.FiscalYear)
	}
	if res.StartDate != "" {
		fund.Set("period", res.StartDate+" to "+res.EndDate)
	}

	// Statements arrive keyed by statement name, line items inside.
	statements := make([]string, 0, len(res.Financials))
	for name := range res.Financials {
		statements = append(statements, name)
	}
	sort.Strings(statements)
	for _, stmt := range statements {
		items := res.Financials[stmt]
		lines := make([]string, 0, len(items))
		for line := range items {
			lines = append(lines, line)
		}
		sort.Strings(lines)
		for _, line := range lines {
			item := items[line]
			if item.Value == nil {
				continue
			}
			fund.Set(stmt+"."+line, *item.Value)
		}
	}
	if len(fund.Keys) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "empty financials for %s", symbol)
	}
	return fund, nil
}

// polygonAggs is the daily aggregates response shape.
type polygonAggs struct {
	Ticker       string `json:"ticker"`
	ResultsCount int    `json:"resultsCount"`
	Results      []struct {
		T int64   `json:"t"` // unix millis
		O float64 `json:"o"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		C float64 `json:"c"`
		V float64 `json:"v"`
	} `json:"results"`
	Status string `json:"status"`
}

// FetchHistory retrieves daily aggregates for the inclusive [from, to] range.
func (f *PolygonFetcher) FetchHistory(ctx context.Context, symbol string, from, to time.Time) (*model.PriceSeries, error) {
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		url.PathEscape(symbol), from.Format("2006-01-02"), to.Format("2006-01-02"))
	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "asc")
	q.Set("limit", "50000")

	body, err := f.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	var aggs polygonAggs
	if err := json.Unmarshal(body, &aggs); err != nil {
		return nil, fmt.Errorf("polygon decode aggregates: %w", err)
	}
	if len(aggs.Results) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(),
			"no historical data for %s in %s..%s", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	bars := make([]model.OHLCV, len(aggs.Results))
	for i, r := range aggs.Results {
		bars[i] = model.OHLCV{
			Time:   time.UnixMilli(r.T),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: r.V,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// FetchMaxHistory retrieves the trailing two years of daily aggregates.
func (f *PolygonFetcher) FetchMaxHistory(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	now := time.Now()
	return f.FetchHistory(ctx, symbol, now.AddDate(-2, 0, 0), now)
}

// FetchQuote retrieves the last trade as the most recent price reading.
func (f *PolygonFetcher) FetchQuote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error) {
	body, err := f.get(ctx, "/v2/last/trade/"+url.PathEscape(symbol), nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Results struct {
			P float64 `json:"p"` // price
			S float64 `json:"s"` // size
			T int64   `json:"t"` // unix nanos
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("polygon decode last trade: %w", err)
	}
	if payload.Results.P == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "no last trade for %s", symbol)
	}
	return &model.QuoteSnapshot{
		Symbol:    symbol,
		Source:    f.Name(),
		Price:     payload.Results.P,
		Volume:    payload.Results.S,
		FetchedAt: time.Now(),
	}, nil
}
