// Package event defines the synthetic network-activity record produced by the
// generator and rendered by clients.
package event
