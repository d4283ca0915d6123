// Package transports provides pluggable transport implementations for the CLI.
package transports

import (
	"context"

	"github.com/rzbill/nidsmon/internal/event"
)

// Status mirrors the server's monitor status payload.
type Status struct {
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

// EventsRequest narrows an events query.
type EventsRequest struct {
	Filter   string
	Severity string
	Limit    int
}

// WatchRequest describes a watch stream. From is "latest" or "earliest".
type WatchRequest struct {
	Filter string
	From   string
	Limit  int
}

// MonitorTransport abstracts the transport used by the CLI (gRPC/HTTP).
type MonitorTransport interface {
	Start(ctx context.Context) (string, error)
	Stop(ctx context.Context) (string, error)
	Status(ctx context.Context) (Status, error)
	Events(ctx context.Context, req EventsRequest) ([]event.Event, error)
	Watch(ctx context.Context, req WatchRequest, onEvent func(event.Event) error) error
}
