package controllers

import (
	"errors"
	"net/http"

	"github.com/rzbill/nidsmon/internal/event"
	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// MonitorController handles the versioned monitor API.
//
// It exposes generator control, status, structured event queries with CEL
// filtering, and an SSE tail of new events.
type MonitorController struct {
	svc    *monitorsvc.Service
	logger logpkg.Logger
}

// NewMonitorController creates a new monitor controller.
func NewMonitorController(svc *monitorsvc.Service, logger logpkg.Logger) *MonitorController {
	return &MonitorController{svc: svc, logger: logger}
}

// RegisterRoutes registers monitor routes with the given mux.
func (c *MonitorController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/monitor/start", c.handleStart)
	mux.HandleFunc("/v1/monitor/stop", c.handleStop)
	mux.HandleFunc("/v1/monitor/status", c.handleStatus)
	mux.HandleFunc("/v1/events", c.handleEvents)
	mux.HandleFunc("/v1/events/stream", c.handleStream)
}

func (c *MonitorController) handleStart(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	writeJSON(w, c.svc.Start(r.Context()))
}

func (c *MonitorController) handleStop(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	writeJSON(w, c.svc.Stop(r.Context()))
}

func (c *MonitorController) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, c.svc.Status(r.Context()))
}

// handleEvents returns the current window, optionally filtered.
//
// Query: filter (CEL), severity (info|alert), limit (newest N).
func (c *MonitorController) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	opts := monitorsvc.SearchOptions{Filter: q.Get("filter"), Limit: parseLimit(q.Get("limit"))}
	if s := q.Get("severity"); s != "" {
		sev, err := event.ParseSeverity(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Severity = sev
	}
	evs, err := c.svc.Search(r.Context(), opts)
	if err != nil {
		c.writeServiceError(w, err)
		return
	}
	writeJSON(w, eventsResp{Events: evs})
}

// handleStream tails new events as SSE until the client disconnects.
//
// Query: filter (CEL), from=earliest replays the current window first.
func (c *MonitorController) handleStream(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	opts := monitorsvc.WatchOptions{
		Filter:    q.Get("filter"),
		FromStart: q.Get("from") == "earliest" || parseBool(q.Get("from_start")),
		Limit:     parseLimit(q.Get("limit")),
	}
	if err := monitorsvc.ValidateFilter(opts.Filter); err != nil {
		c.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Headers go out before the first event so clients see the stream open.
	w.WriteHeader(http.StatusOK)
	sink := sseSink{w: w}
	_ = sink.Flush()
	if err := c.svc.Watch(r.Context(), opts, sink); err != nil {
		c.logger.Debug("event stream ended", logpkg.Err(err))
	}
}

func (c *MonitorController) writeServiceError(w http.ResponseWriter, err error) {
	var fe *monitorsvc.FilterError
	if errors.As(err, &fe) {
		writeError(w, http.StatusBadRequest, fe.Error())
		return
	}
	c.logger.Error("monitor request failed", logpkg.Err(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
