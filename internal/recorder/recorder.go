package recorder

import "time"

// RequestEvent captures one answered request for later analysis.
type RequestEvent struct {
	Query         string
	Tickers       []string
	TickersSource string // "explicit" or "resolved" or "none"
	ResponseChars int
	LatencyMS     int64
	ErrorKind     string // empty on success
}

// Recorder persists request history.
type Recorder interface {
	RecordRequest(evt *RequestEvent) error
	PurgeOlderThan(cutoff time.Time) (int64, error)
	Close() error
}
