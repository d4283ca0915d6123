package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// JSONFormatter renders one JSON object per entry.
type JSONFormatter struct {
	// TimestampFormat defaults to time.RFC3339Nano.
	TimestampFormat string
}

func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = time.RFC3339Nano
	}
	m := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		if e, ok := v.(error); ok {
			v = e.Error()
		}
		m[k] = v
	}
	m["ts"] = entry.Timestamp.Format(layout)
	m["level"] = entry.Level.String()
	m["msg"] = entry.Message
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// TextFormatter renders "ts LEVEL [component] msg k=v ..." lines with keys sorted.
type TextFormatter struct {
	TimestampFormat string
	// DisableTimestamp drops the leading timestamp (handy for CLI output).
	DisableTimestamp bool
}

func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer
	if !f.DisableTimestamp {
		layout := f.TimestampFormat
		if layout == "" {
			layout = "2006-01-02T15:04:05.000Z07:00"
		}
		buf.WriteString(entry.Timestamp.Format(layout))
		buf.WriteByte(' ')
	}
	fmt.Fprintf(&buf, "%-5s ", entry.Level.String())
	if c, ok := entry.Fields[ComponentKey]; ok {
		fmt.Fprintf(&buf, "[%v] ", c)
	}
	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		if k == ComponentKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
