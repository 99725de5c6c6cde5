package analyst

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"FinSight/internal/llm"
	"FinSight/internal/market"
	"FinSight/internal/model"
	"FinSight/internal/recorder"
	"FinSight/internal/resolver"
)

// fakeCompleter captures the prompt and returns a canned result.
type fakeCompleter struct {
	lastSystem string
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeCompleter) Complete(_ context.Context, system string, messages []llm.Message) (string, error) {
	f.lastSystem = system
	if len(messages) > 0 {
		f.lastPrompt = messages[len(messages)-1].Content
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestService(comp *fakeCompleter, fetcher *market.MockFetcher) *Service {
	gw := &market.Gateway{
		Fundamentals: fetcher,
		Financials:   fetcher,
		History:      fetcher,
		Quotes:       []market.QuoteFetcher{fetcher},
		Now:          time.Now,
	}
	svc := NewService(
		resolver.New(map[string]string{"Apple": "AAPL", "Tesla": "TSLA"}),
		gw, comp, recorder.NewNoopRecorder(),
	)
	svc.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(1)) }
	return svc
}

func TestAnswer_ResolvedTickerFlowsIntoPrompt(t *testing.T) {
	comp := &fakeCompleter{reply: "Apple looks fairly valued."}
	svc := newTestService(comp, &market.MockFetcher{Source: "yahoo", Price: 150})

	resp := svc.Answer(context.Background(), Request{Query: "Is Apple overvalued?"})
	if resp.Text != "Apple looks fairly valued." {
		t.Errorf("Text = %q", resp.Text)
	}
	if len(resp.Tickers) != 1 || resp.Tickers[0] != "AAPL" {
		t.Errorf("Tickers = %v, want [AAPL]", resp.Tickers)
	}
	if !strings.Contains(comp.lastPrompt, "Below is the real-time financial data for AAPL:") {
		t.Errorf("prompt missing ticker section:\n%s", comp.lastPrompt)
	}
	if !strings.HasSuffix(comp.lastPrompt, "Is Apple overvalued?") {
		t.Error("user query must terminate the prompt")
	}
	if !strings.Contains(comp.lastSystem, "financial analyst assistant") {
		t.Errorf("system instruction = %q", comp.lastSystem)
	}
}

func TestAnswer_ExplicitTickersWinOverResolution(t *testing.T) {
	comp := &fakeCompleter{reply: "ok"}
	svc := newTestService(comp, &market.MockFetcher{Source: "yahoo", Price: 150})

	resp := svc.Answer(context.Background(), Request{
		Query:   "tell me about Apple",
		Tickers: []string{"msft", "MSFT", " nvda "},
	})
	want := []string{"MSFT", "NVDA"}
	if len(resp.Tickers) != 2 || resp.Tickers[0] != want[0] || resp.Tickers[1] != want[1] {
		t.Errorf("Tickers = %v, want %v", resp.Tickers, want)
	}
}

func TestAnswer_GeneralQueryForwardsBareQuery(t *testing.T) {
	comp := &fakeCompleter{reply: "markets are mixed"}
	svc := newTestService(comp, &market.MockFetcher{Source: "yahoo", Price: 150})

	resp := svc.Answer(context.Background(), Request{Query: "How is the market today"})
	if len(resp.Tickers) != 0 {
		t.Errorf("expected no tickers, got %v", resp.Tickers)
	}
	if comp.lastPrompt != "How is the market today" {
		t.Errorf("general query must pass through untouched, got %q", comp.lastPrompt)
	}
}

func TestAnswer_ProviderErrorSurfacesInPromptNotFault(t *testing.T) {
	comp := &fakeCompleter{reply: "summary"}
	fetcher := &market.MockFetcher{
		Source:          "yahoo",
		Price:           150,
		FundamentalsErr: model.NewFetchError(model.ErrNotFound, "yahoo", "no data found for ZZZZ"),
		HistoryErr:      model.NewFetchError(model.ErrNotFound, "yahoo", "no historical data for ZZZZ"),
	}
	svc := newTestService(comp, fetcher)

	resp := svc.Answer(context.Background(), Request{Query: "thoughts?", Tickers: []string{"ZZZZ"}})
	if resp.ErrorKind != "" {
		t.Errorf("provider errors must not fail the request, got kind %s", resp.ErrorKind)
	}
	if !strings.Contains(comp.lastPrompt, "ZZZZ") || !strings.Contains(comp.lastPrompt, "no data found for ZZZZ") {
		t.Errorf("prompt must name the ticker and the cause:\n%s", comp.lastPrompt)
	}
}

func TestAnswer_CompletionFailureFoldsIntoText(t *testing.T) {
	comp := &fakeCompleter{err: errors.New("completion call: status 529")}
	svc := newTestService(comp, &market.MockFetcher{Source: "yahoo", Price: 150})

	resp := svc.Answer(context.Background(), Request{Query: "Is Apple overvalued?"})
	if resp.ErrorKind != model.ErrService {
		t.Errorf("ErrorKind = %s, want SERVICE_ERROR", resp.ErrorKind)
	}
	if !strings.Contains(resp.Text, "status 529") {
		t.Errorf("error text must carry the cause, got %q", resp.Text)
	}
}

func TestAnswer_PanicIsCaughtAtBoundary(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "ok"}, &market.MockFetcher{Source: "yahoo", Price: 150})
	svc.NewRand = func() *rand.Rand { panic("rng exploded") }

	resp := svc.Answer(context.Background(), Request{Query: "Is Apple overvalued?"})
	if !strings.Contains(resp.Text, "An error occurred while generating the response") {
		t.Errorf("panic must convert to a response payload, got %q", resp.Text)
	}
	if resp.ErrorKind != model.ErrService {
		t.Errorf("ErrorKind = %s, want SERVICE_ERROR", resp.ErrorKind)
	}
}
