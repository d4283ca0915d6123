package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/rzbill/nidsmon/internal/event"
)

// sseSink implements monitorsvc.WatchSink for Server-Sent Events.
//
// Each event is JSON-encoded after a "data: " prefix and terminated by a
// blank line, with the event id carried in the "id:" field.
type sseSink struct {
	w http.ResponseWriter
}

// Send writes one SSE frame.
func (s sseSink) Send(ev event.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("id: " + ev.ID + "\ndata: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		return err
	}
	return nil
}

// Flush pushes buffered frames to the client.
func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
