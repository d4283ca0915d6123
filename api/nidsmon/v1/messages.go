package nidsmonv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rzbill/nidsmon/internal/event"
)

// RecentRequest is the Struct shape accepted by Recent.
type RecentRequest struct {
	Filter   string `json:"filter,omitempty"`
	Severity string `json:"severity,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// RecentResponse is the Struct shape returned by Recent.
type RecentResponse struct {
	Events []event.Event `json:"events"`
}

// WatchRequest is the Struct shape accepted by Watch. From is "latest"
// (default) or "earliest".
type WatchRequest struct {
	Filter string `json:"filter,omitempty"`
	From   string `json:"from,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Ack is the Struct shape returned by Start and Stop.
type Ack struct {
	Status string `json:"status"`
}

// ToStruct converts any JSON-encodable value to a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

// FromStruct decodes s into v (a pointer) through its JSON form. A nil s
// leaves v untouched.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
