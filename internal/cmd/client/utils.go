package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	transports "github.com/rzbill/nidsmon/internal/cmd/client/transports"
	"github.com/rzbill/nidsmon/internal/event"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// grpcAddrFromEnv returns the gRPC server address from NIDS_GRPC or a default.
func grpcAddrFromEnv() string {
	if addr := os.Getenv("NIDS_GRPC"); addr != "" {
		return addr
	}
	return "127.0.0.1:50051"
}

// HTTPURLFromEnv returns the HTTP base URL from NIDS_HTTP or a default.
func HTTPURLFromEnv() string {
	if v := os.Getenv("NIDS_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:5000"
}

// dialGRPCContext dials the gRPC endpoint with insecure transport for local/dev.
func dialGRPCContext(_ context.Context) (*grpc.ClientConn, error) {
	return grpc.NewClient(grpcAddrFromEnv(), grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// getTransport selects the transport named by kind ("grpc" or "http").
func getTransport(kind string, baseURL BaseURLFunc) (transports.MonitorTransport, error) {
	switch kind {
	case "", "grpc":
		return transports.NewGrpcTransport(dialGRPCContext), nil
	case "http":
		return transports.NewHTTPTransport(baseURL(), nil), nil
	default:
		return nil, fmt.Errorf("unknown transport %q; use grpc|http", kind)
	}
}

// eventPrinter writes events as display lines or JSON objects.
type eventPrinter struct {
	w    io.Writer
	json bool
	enc  *json.Encoder
}

func newEventPrinter(w io.Writer, output string) (*eventPrinter, error) {
	switch output {
	case "", "text":
		return &eventPrinter{w: w}, nil
	case "json":
		return &eventPrinter{w: w, json: true, enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output %q; use text|json", output)
	}
}

func (p *eventPrinter) print(ev event.Event) error {
	if p.json {
		return p.enc.Encode(ev)
	}
	_, err := fmt.Fprintln(p.w, ev.Text)
	return err
}
