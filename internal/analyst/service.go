// Package analyst orchestrates one request end to end: resolve tickers,
// fetch market data, compute indicators, compose the prompt and call the
// completion service. Every failure folds into the response text; nothing
// escapes this boundary.
package analyst

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"FinSight/internal/calculator"
	"FinSight/internal/composer"
	"FinSight/internal/llm"
	"FinSight/internal/market"
	"FinSight/internal/model"
	"FinSight/internal/period"
	"FinSight/internal/recorder"
	"FinSight/internal/resolver"
)

// Request is one inbound question. Explicit Tickers win over resolution
// from the query text.
type Request struct {
	Query   string
	Tickers []string
}

// Response carries the completion text plus structured metadata the HTTP
// layer may expose. ErrorKind is empty on success.
type Response struct {
	Text      string
	Tickers   []string
	ErrorKind model.ErrorKind
}

// Service wires the pipeline stages. No state is shared across requests
// except the immutable resolver table.
type Service struct {
	Resolver  *resolver.Resolver
	Gateway   *market.Gateway
	Completer llm.Completer
	Recorder  recorder.Recorder
	Now       func() time.Time
	NewRand   func() *rand.Rand
}

// NewService builds a Service with production defaults: wall clock and a
// time-seeded random source per request.
func NewService(res *resolver.Resolver, gw *market.Gateway, comp llm.Completer, rec recorder.Recorder) *Service {
	return &Service{
		Resolver:  res,
		Gateway:   gw,
		Completer: comp,
		Recorder:  rec,
		Now:       time.Now,
		NewRand:   func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

// Answer handles one request. It never panics outward: any fault is caught
// and converted into a generic error response.
func (s *Service) Answer(ctx context.Context, req Request) (resp Response) {
	started := s.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] request handling panicked: %v", r)
			resp = Response{
				Text:      fmt.Sprintf("An error occurred while generating the response: %v", r),
				ErrorKind: model.ErrService,
			}
		}
		s.record(req, resp, started)
	}()

	tickers, source := s.chooseTickers(req)
	resp.Tickers = tickers

	var prompt string
	if len(tickers) == 0 {
		// General, non-ticker-specific handling: forward the bare query.
		prompt = req.Query
	} else {
		prompt = s.buildPrompt(ctx, tickers, req.Query)
	}
	log.Printf("[INFO] query=%q tickers=%v source=%s", truncate(req.Query, 80), tickers, source)

	text, err := s.Completer.Complete(ctx, composer.SystemInstruction, []llm.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Printf("[WARN] completion failed: %v", err)
		resp.Text = fmt.Sprintf("Error generating response from the completion service: %v", err)
		resp.ErrorKind = model.ErrService
		return resp
	}

	resp.Text = text
	return resp
}

// chooseTickers prefers the explicit list (uppercased, deduplicated, input
// order kept) and falls back to resolution from the query text.
func (s *Service) chooseTickers(req Request) (tickers []string, source string) {
	if len(req.Tickers) > 0 {
		seen := make(map[string]bool)
		for _, t := range req.Tickers {
			sym := strings.ToUpper(strings.TrimSpace(t))
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			tickers = append(tickers, sym)
		}
		return tickers, "explicit"
	}
	if resolved := s.Resolver.Resolve(req.Query); len(resolved) > 0 {
		return resolved, "resolved"
	}
	return nil, "none"
}

func (s *Service) buildPrompt(ctx context.Context, tickers []string, query string) string {
	var rng *period.Range
	if r, ok := period.Derive(query, s.Now()); ok {
		rng = &r
	}

	benchmark := s.Gateway.FetchBenchmark(ctx)
	randSrc := s.NewRand()

	sections := make([]composer.TickerSection, 0, len(tickers))
	for _, symbol := range tickers {
		snap := s.Gateway.Collect(ctx, symbol, rng)
		section := composer.TickerSection{Snapshot: snap}
		if snap.History.OK() {
			section.Bundle = calculator.ComputeBundle(snap.History.Value, benchmark, randSrc)
		}
		sections = append(sections, section)
	}
	return composer.Compose(sections, query)
}

func (s *Service) record(req Request, resp Response, started time.Time) {
	if s.Recorder == nil {
		return
	}
	evt := &recorder.RequestEvent{
		Query:         req.Query,
		Tickers:       resp.Tickers,
		TickersSource: "none",
		ResponseChars: len(resp.Text),
		LatencyMS:     s.Now().Sub(started).Milliseconds(),
		ErrorKind:     string(resp.ErrorKind),
	}
	if len(req.Tickers) > 0 {
		evt.TickersSource = "explicit"
	} else if len(resp.Tickers) > 0 {
		evt.TickersSource = "resolved"
	}
	if err := s.Recorder.RecordRequest(evt); err != nil {
		log.Printf("[WARN] record request: %v", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
