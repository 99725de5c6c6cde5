// Package resolver maps free-text company mentions to ticker symbols using
// a static name->symbol table loaded once at startup.
package resolver

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// Resolver holds the immutable company-name to ticker table. It is built
// once at startup and never mutated afterwards, so concurrent Resolve
// calls need no locking.
type Resolver struct {
	names   []string          // lowercased company names
	symbols map[string]string // lowercased name -> ticker symbol
}

// New builds a Resolver from an explicit table. Names are matched
// case-insensitively.
func New(table map[string]string) *Resolver {
	r := &Resolver{symbols: make(map[string]string, len(table))}
	for name, symbol := range table {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" || symbol == "" {
			continue
		}
		r.names = append(r.names, lower)
		r.symbols[lower] = strings.ToUpper(symbol)
	}
	sort.Strings(r.names)
	return r
}

// LoadFile reads a JSON object of company name -> ticker symbol. A missing
// or malformed file yields an empty resolver and a warning; it is never
// fatal, the service just falls back to explicit tickers.
func LoadFile(path string) *Resolver {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[WARN] ticker table %s not readable: %v, resolver will be empty", path, err)
		return New(nil)
	}
	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		log.Printf("[WARN] ticker table %s malformed: %v, resolver will be empty", path, err)
		return New(nil)
	}
	log.Printf("[INFO] ticker table loaded: %d companies", len(table))
	return New(table)
}

// Resolve scans the query for any company name appearing literally as a
// substring (case-folded) and returns the matched symbols, deduplicated
// and sorted. An empty result means "general query", not an error.
func (r *Resolver) Resolve(query string) []string {
	folded := strings.ToLower(query)
	seen := make(map[string]bool)
	var matched []string
	for _, name := range r.names {
		if strings.Contains(folded, name) {
			sym := r.symbols[name]
			if !seen[sym] {
				seen[sym] = true
				matched = append(matched, sym)
			}
		}
	}
	sort.Strings(matched)
	return matched
}

// Size returns the number of known company names.
func (r *Resolver) Size() int { return len(r.names) }

// Describe is a short log-friendly summary.
func (r *Resolver) Describe() string {
	return fmt.Sprintf("resolver(%d names)", len(r.names))
}
