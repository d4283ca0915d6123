package controllers

import (
	"net/http"

	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
)

// LegacyController serves the original poll surface: /start, /stop and
// /alerts returning display strings.
type LegacyController struct {
	svc *monitorsvc.Service
}

// NewLegacyController creates a new legacy controller.
func NewLegacyController(svc *monitorsvc.Service) *LegacyController {
	return &LegacyController{svc: svc}
}

// RegisterRoutes registers the legacy routes with the given mux.
func (c *LegacyController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/start", c.handleStart)
	mux.HandleFunc("/stop", c.handleStop)
	mux.HandleFunc("/alerts", c.handleAlerts)
}

func (c *LegacyController) handleStart(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	writeJSON(w, c.svc.Start(r.Context()))
}

func (c *LegacyController) handleStop(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	writeJSON(w, c.svc.Stop(r.Context()))
}

func (c *LegacyController) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, alertsResp{Alerts: monitorsvc.Display(c.svc.Recent(r.Context()))})
}
