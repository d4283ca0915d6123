package monitorsvc

import "github.com/rzbill/nidsmon/internal/event"

// SearchOptions narrows a Recent snapshot.
type SearchOptions struct {
	// Filter is an optional CEL expression; empty matches everything.
	Filter string
	// Severity keeps only events of this severity when non-empty.
	Severity event.Severity
	// Limit keeps the newest Limit matches when > 0.
	Limit int
}

// WatchOptions controls where a watch starts and what it delivers.
type WatchOptions struct {
	Filter string
	// FromStart replays the current window before tailing.
	FromStart bool
	// Limit stops the watch after that many deliveries when > 0.
	Limit int
}

// WatchSink is implemented by transports to receive streamed events.
type WatchSink interface {
	Send(event.Event) error
	Flush() error
}

// StatusInfo summarizes the generator and the current log window.
type StatusInfo struct {
	Running  bool   `json:"running"`
	State    string `json:"state"`
	RunID    string `json:"run_id,omitempty"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	Appended uint64 `json:"appended"`
	Evicted  uint64 `json:"evicted"`
	LastSeq  uint64 `json:"last_seq"`
	Alerts   int    `json:"alerts"`
	Infos    int    `json:"infos"`
}

// SinkFunc adapts a function to WatchSink with a no-op Flush.
type SinkFunc func(event.Event) error

func (f SinkFunc) Send(ev event.Event) error { return f(ev) }
func (f SinkFunc) Flush() error              { return nil }
