package log

import "time"

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

func Str(key, value string) Field             { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field     { return Field{Key: key, Value: value} }
func Uint64(key string, value uint64) Field   { return Field{Key: key, Value: value} }
func Float64(key string, v float64) Field     { return Field{Key: key, Value: v} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Dur renders durations in their human form ("1.5s").
func Dur(key string, value time.Duration) Field { return Field{Key: key, Value: value.String()} }

// Err attaches an error under the "error" key. A nil error yields an empty value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: ""}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component tags the entry with the emitting component.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }
