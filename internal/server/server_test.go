package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"FinSight/internal/analyst"
	"FinSight/internal/llm"
	"FinSight/internal/market"
	"FinSight/internal/model"
	"FinSight/internal/recorder"
	"FinSight/internal/resolver"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ []llm.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(comp llm.Completer, fetcher *market.MockFetcher) *Server {
	gw := &market.Gateway{
		Fundamentals: fetcher,
		Financials:   fetcher,
		History:      fetcher,
		Quotes:       []market.QuoteFetcher{fetcher},
		Now:          time.Now,
	}
	svc := analyst.NewService(
		resolver.New(map[string]string{"Apple": "AAPL"}),
		gw, comp, recorder.NewNoopRecorder(),
	)
	svc.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(1)) }
	return NewServer(svc, 0)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) responseBody {
	t.Helper()
	var body responseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestGenerateResponse_JSONBody(t *testing.T) {
	s := newTestServer(&stubCompleter{reply: "analysis text"}, &market.MockFetcher{Source: "yahoo", Price: 150})

	req := httptest.NewRequest(http.MethodPost, "/generate-response",
		strings.NewReader(`{"query": "Is Apple overvalued?", "company": "AAPL"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeResponse(t, rec); body.Response != "analysis text" {
		t.Errorf("response = %q", body.Response)
	}
}

func TestGenerateResponse_FormBodyWithCompany(t *testing.T) {
	s := newTestServer(&stubCompleter{reply: "ok"}, &market.MockFetcher{Source: "yahoo", Price: 150})

	form := url.Values{"query": {"what's the outlook"}, "company": {"AAPL"}}
	req := httptest.NewRequest(http.MethodPost, "/generate-response", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeResponse(t, rec); body.Response != "ok" {
		t.Errorf("response = %q", body.Response)
	}
}

func TestGenerateResponse_NoCompanyResolvesFromQuery(t *testing.T) {
	// Without explicit tickers the service scans the query against the
	// company table and falls through to a general answer on no match.
	form := url.Values{"query": {"is Apple a buy right now"}}
	s := newTestServer(&stubCompleter{reply: "resolved"}, &market.MockFetcher{Source: "yahoo", Price: 150})

	req := httptest.NewRequest(http.MethodPost, "/generate-response", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeResponse(t, rec); body.Response != "resolved" {
		t.Errorf("response = %q", body.Response)
	}
}

func TestGenerateResponse_TickerListOverridesCompany(t *testing.T) {
	comp := &stubCompleter{reply: "multi"}
	s := newTestServer(comp, &market.MockFetcher{Source: "yahoo", Price: 150})

	req := httptest.NewRequest(http.MethodPost, "/generate-response",
		strings.NewReader(`{"query": "compare", "company": "AAPL", "tickers": ["MSFT", "NVDA"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if body := decodeResponse(t, rec); body.Response != "multi" {
		t.Errorf("response = %q", body.Response)
	}
}

func TestGenerateResponse_FailuresStayHTTP200(t *testing.T) {
	// Unresolvable ticker, broken providers, broken completion: the
	// endpoint still answers 200 with the cause in the body.
	fetcher := &market.MockFetcher{
		Source:          "yahoo",
		FundamentalsErr: model.NewFetchError(model.ErrNotFound, "yahoo", "no data found for ZZZZ"),
		HistoryErr:      model.NewFetchError(model.ErrNotFound, "yahoo", "no historical data for ZZZZ"),
		QuoteErr:        model.NewFetchError(model.ErrUpstreamUnavailable, "yahoo", "timeout"),
	}
	s := newTestServer(&stubCompleter{err: context.DeadlineExceeded}, fetcher)

	req := httptest.NewRequest(http.MethodPost, "/generate-response",
		strings.NewReader(`{"query": "thoughts", "tickers": ["ZZZZ"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on failure", rec.Code)
	}
	body := decodeResponse(t, rec)
	if !strings.Contains(body.Response, "Error generating response") {
		t.Errorf("body must explain the failure, got %q", body.Response)
	}
	if body.Error != string(model.ErrService) {
		t.Errorf("error kind = %q, want SERVICE_ERROR", body.Error)
	}
}

func TestGenerateResponse_MalformedJSONStillHTTP200(t *testing.T) {
	s := newTestServer(&stubCompleter{reply: "ok"}, &market.MockFetcher{Source: "yahoo", Price: 150})

	req := httptest.NewRequest(http.MethodPost, "/generate-response", strings.NewReader(`{broken`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeResponse(t, rec); !strings.Contains(body.Response, "An error occurred") {
		t.Errorf("body = %q", body.Response)
	}
}

func TestIndexServesForm(t *testing.T) {
	s := newTestServer(&stubCompleter{reply: "ok"}, &market.MockFetcher{Source: "yahoo", Price: 150})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<form") {
		t.Error("index must serve the query form")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(&stubCompleter{reply: "ok"}, &market.MockFetcher{Source: "yahoo", Price: 150})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
