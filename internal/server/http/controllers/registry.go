package controllers

import (
	"net/http"

	"github.com/rzbill/nidsmon/internal/runtime"
	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes.
type ControllerRegistry struct {
	general *GeneralController
	monitor *MonitorController
	legacy  *LegacyController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svc *monitorsvc.Service, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt),
		monitor: NewMonitorController(svc, logger),
		legacy:  NewLegacyController(svc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This sets up health and the live page, the versioned monitor API, and the
// legacy poll endpoints used by the original page.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.monitor.RegisterRoutes(mux)
	r.legacy.RegisterRoutes(mux)
}
