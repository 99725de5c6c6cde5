package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"FinSight/internal/model"
)

// YahooFetcher talks to the Yahoo Finance public API: the v8 chart endpoint
// for history and quotes, and the v10 quoteSummary endpoint for
// fundamentals.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.NewFetchError(model.ErrUpstreamUnavailable, f.Name(),
			"status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, query url.Values) ([]model.OHLCV, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?%s",
		url.PathEscape(symbol), query.Encode())

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(),
			"api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FetchHistory retrieves daily bars for the inclusive [from, to] range.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, from, to time.Time) (*model.PriceSeries, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(from.Unix()))
	q.Set("period2", fmt.Sprint(to.AddDate(0, 0, 1).Unix())) // period2 is exclusive
	bars, err := f.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(),
			"no historical data for %s in %s..%s", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// FetchMaxHistory retrieves the provider's maximum available daily history.
func (f *YahooFetcher) FetchMaxHistory(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "2y")
	bars, err := f.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "no historical data for %s", symbol)
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// FetchQuote retrieves the latest bar of the current trading day.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "1d")
	bars, err := f.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "no price data for %s", symbol)
	}
	last := bars[len(bars)-1]
	return &model.QuoteSnapshot{
		Symbol:    symbol,
		Source:    f.Name(),
		Price:     last.Close,
		Open:      last.Open,
		High:      last.High,
		Low:       last.Low,
		Volume:    last.Volume,
		FetchedAt: time.Now(),
	}, nil
}

// FetchFundamentals retrieves the quoteSummary profile/statistics record.
func (f *YahooFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics,assetProfile,financialData",
		url.PathEscape(symbol))

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var summary struct {
		QuoteSummary struct {
			Result []map[string]map[string]json.RawMessage `json:"result"`
			Error  *struct {
				Description string `json:"description"`
			} `json:"error"`
		} `json:"quoteSummary"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(),
			"api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "no data found for %s", symbol)
	}

	fund := &model.Fundamentals{Symbol: symbol, Source: f.Name()}
	modules := summary.QuoteSummary.Result[0]
	for _, mod := range []string{"assetProfile", "summaryDetail", "defaultKeyStatistics", "financialData"} {
		fields, ok := modules[mod]
		if !ok {
			continue
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fund.Set(k, flattenYahooValue(fields[k]))
		}
	}
	if len(fund.Keys) == 0 {
		return nil, model.NewFetchError(model.ErrNotFound, f.Name(), "empty fundamentals for %s", symbol)
	}
	return fund, nil
}

// flattenYahooValue unwraps Yahoo's {raw, fmt} wrappers into plain values.
func flattenYahooValue(raw json.RawMessage) any {
	var wrapped struct {
		Raw *float64 `json:"raw"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Raw != nil {
		return *wrapped.Raw
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return strings.TrimSpace(string(raw))
}
