package controllers

import "github.com/rzbill/nidsmon/internal/event"

// Common request/response types for HTTP controllers

// alertsResp is the legacy poll payload: display strings, oldest first.
type alertsResp struct {
	Alerts []string `json:"alerts"`
}

// eventsResp carries structured events, oldest first.
type eventsResp struct {
	Events []event.Event `json:"events"`
}

// healthResp reports service health.
type healthResp struct {
	Status string `json:"status"`
}
