// Package server exposes the HTTP boundary: a query form, the
// generate-response endpoint and a health check.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"FinSight/internal/analyst"
)

// Server wraps the HTTP listener around the analyst service.
type Server struct {
	service    *analyst.Service
	httpServer *http.Server
}

// NewServer builds the mux and the listener. Write timeout stays generous
// because a completion round-trip dominates request latency.
func NewServer(svc *analyst.Service, port int) *Server {
	s := &Server{service: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("POST /generate-response", s.handleGenerateResponse)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

// Start blocks serving requests until Shutdown.
func (s *Server) Start() error {
	log.Printf("[INFO] HTTP server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
