package controllers

import (
	"net/http"

	"github.com/rzbill/nidsmon/internal/runtime"
	"github.com/rzbill/nidsmon/internal/ui"
)

// GeneralController handles health and the embedded live-monitor page.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers general routes with the given mux.
//
// - Health checks (/v1/healthz)
// - Live monitor page and its assets (/)
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.Handle("/", http.FileServer(ui.FS()))
}

// handleHealth returns 200 {"status":"ok"} if healthy, 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, healthResp{Status: "ok"})
}
