// Package client provides the `nidsmon monitor` command-line client.
//
// The CLI talks to the nidsmon gRPC (default) or HTTP endpoints to control the
// generator and read events from a terminal.
//
// # Address configuration
//
// The gRPC address is read from NIDS_GRPC (default 127.0.0.1:50051). The HTTP
// base URL is discovered by the embedding application via a BaseURLFunc; the
// standalone binary reads NIDS_HTTP (default http://127.0.0.1:5000).
//
// Usage
//
//	nidsmon monitor start
//	nidsmon monitor status
//	nidsmon monitor events --severity alert --limit 10
//	nidsmon monitor events --filter 'host > 50' -o json
//	nidsmon monitor watch --from earliest
//	nidsmon monitor stop --transport http
//
// Notes
//
//   - watch connects to MonitorService.Watch (gRPC) or /v1/events/stream (SSE).
//   - filters are CEL over severity, source, host, text, run_id, ts_ms, now_ms.
package client
