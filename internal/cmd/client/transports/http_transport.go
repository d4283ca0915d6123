package transports

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rzbill/nidsmon/internal/event"
)

// HTTPTransport implements MonitorTransport over the REST API.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport targets baseURL (e.g. http://127.0.0.1:5000).
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, q url.Values, out any) error {
	u := t.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeHTTPError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeHTTPError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	b, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, e.Error)
	}
	return fmt.Errorf("%s", resp.Status)
}

// Start asks the server to begin monitoring.
func (t *HTTPTransport) Start(ctx context.Context) (string, error) {
	var ack struct {
		Status string `json:"status"`
	}
	err := t.do(ctx, http.MethodPost, "/v1/monitor/start", nil, &ack)
	return ack.Status, err
}

// Stop asks the server to halt monitoring.
func (t *HTTPTransport) Stop(ctx context.Context) (string, error) {
	var ack struct {
		Status string `json:"status"`
	}
	err := t.do(ctx, http.MethodPost, "/v1/monitor/stop", nil, &ack)
	return ack.Status, err
}

// Status fetches the monitor status.
func (t *HTTPTransport) Status(ctx context.Context) (Status, error) {
	var st Status
	err := t.do(ctx, http.MethodGet, "/v1/monitor/status", nil, &st)
	return st, err
}

// Events returns the current window, filtered server-side.
func (t *HTTPTransport) Events(ctx context.Context, req EventsRequest) ([]event.Event, error) {
	q := url.Values{}
	if req.Filter != "" {
		q.Set("filter", req.Filter)
	}
	if req.Severity != "" {
		q.Set("severity", req.Severity)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	var out struct {
		Events []event.Event `json:"events"`
	}
	err := t.do(ctx, http.MethodGet, "/v1/events", q, &out)
	return out.Events, err
}

// Watch consumes the SSE stream and invokes onEvent for each frame.
func (t *HTTPTransport) Watch(ctx context.Context, req WatchRequest, onEvent func(event.Event) error) error {
	q := url.Values{}
	if req.Filter != "" {
		q.Set("filter", req.Filter)
	}
	if req.From != "" {
		q.Set("from", req.From)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/v1/events/stream?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	hreq.Header.Set("Accept", "text/event-stream")
	resp, err := t.client.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeHTTPError(resp)
	}
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev event.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			return fmt.Errorf("decode frame: %w", err)
		}
		if err := onEvent(ev); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
