package event

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies an Event.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityAlert Severity = "ALERT"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool { return s == SeverityInfo || s == SeverityAlert }

// ParseSeverity accepts "info"/"alert" in any case.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityInfo:
		return SeverityInfo, nil
	case SeverityAlert:
		return SeverityAlert, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// ClockLayout is the HH:MM:SS stamp embedded in display text.
const ClockLayout = "15:04:05"

// Event is one classified network-activity record. Values are never mutated
// after the generator creates them.
type Event struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"timestamp"`
	Severity      Severity  `json:"severity"`
	SourceAddress string    `json:"source_address"`
	Text          string    `json:"text"`
}

// New builds an Event and its display text from ts (rendered in local time).
func New(id, runID string, ts time.Time, sev Severity, source string) Event {
	return Event{
		ID:            id,
		RunID:         runID,
		Timestamp:     ts,
		Severity:      sev,
		SourceAddress: source,
		Text:          FormatText(ts, sev, source),
	}
}

// FormatText renders the display line, e.g.
// "[14:03:07] ALERT: Suspicious activity detected from 192.168.1.17".
func FormatText(ts time.Time, sev Severity, source string) string {
	clock := ts.Local().Format(ClockLayout)
	if sev == SeverityAlert {
		return fmt.Sprintf("[%s] ALERT: Suspicious activity detected from %s", clock, source)
	}
	return fmt.Sprintf("[%s] INFO: Normal traffic from %s", clock, source)
}

// IsAlert is shorthand for e.Severity == SeverityAlert.
func (e Event) IsAlert() bool { return e.Severity == SeverityAlert }

func (e Event) String() string { return e.Text }
