package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"FinSight/internal/analyst"
)

// responseBody is the single response shape. Failures surface here too,
// with HTTP 200 and the cause folded into the text; Error carries the
// machine-readable kind when one applies.
type responseBody struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

type generateRequest struct {
	Query   string   `json:"query"`
	Company string   `json:"company"`
	Tickers []string `json:"tickers"`
}

func (s *Server) handleGenerateResponse(w http.ResponseWriter, r *http.Request) {
	req, err := parseGenerateRequest(r)
	if err != nil {
		log.Printf("[WARN] parse request: %v", err)
		writeJSON(w, http.StatusOK, responseBody{
			Response: fmt.Sprintf("An error occurred while generating the response: %v", err),
		})
		return
	}

	resp := s.service.Answer(r.Context(), req)
	writeJSON(w, http.StatusOK, responseBody{
		Response: resp.Text,
		Error:    string(resp.ErrorKind),
	})
}

// parseGenerateRequest accepts either a JSON body or form fields. The
// ticker list wins over the single company field. When both are absent the
// ticker list stays empty and the service resolves companies from the
// query text instead; the AAPL default lives in the HTML form.
func parseGenerateRequest(r *http.Request) (analyst.Request, error) {
	var req analyst.Request

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body generateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return req, fmt.Errorf("decode JSON body: %w", err)
		}
		req.Query = body.Query
		if len(body.Tickers) > 0 {
			req.Tickers = body.Tickers
		} else if body.Company != "" {
			req.Tickers = []string{body.Company}
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("parse form: %w", err)
	}
	req.Query = r.PostFormValue("query")
	if company := r.PostFormValue("company"); company != "" {
		req.Tickers = []string{company}
	}
	return req, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}
