package grpcserver

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	nidsmonv1 "github.com/rzbill/nidsmon/api/nidsmon/v1"
	cfgpkg "github.com/rzbill/nidsmon/internal/config"
	"github.com/rzbill/nidsmon/internal/event"
	"github.com/rzbill/nidsmon/internal/runtime"
	monitorsvc "github.com/rzbill/nidsmon/internal/services/monitor"
)

const bufSize = 1 << 20

type fixture struct {
	rt     *runtime.Runtime
	conn   *grpc.ClientConn
	client nidsmonv1.MonitorServiceClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close(context.Background()) })

	srv := New(rt, monitorsvc.New(rt, nil), nil)
	lis := bufconn.Listen(bufSize)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &fixture{rt: rt, conn: conn, client: nidsmonv1.NewMonitorServiceClient(conn)}
}

func seed(rt *runtime.Runtime, n int) {
	for i := 1; i <= n; i++ {
		sev := event.SeverityInfo
		if i%2 == 0 {
			sev = event.SeverityAlert
		}
		rt.Log().Append(event.New(fmt.Sprintf("e%d", i), "r", time.Now(), sev, fmt.Sprintf("192.168.1.%d", i+1)))
	}
}

func TestHealthOverGRPC(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	hc := healthpb.NewHealthClient(f.conn)
	for _, svc := range []string{"", nidsmonv1.ServiceName} {
		res, err := hc.Check(ctx, &healthpb.HealthCheckRequest{Service: svc})
		if err != nil {
			t.Fatalf("check %q: %v", svc, err)
		}
		if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("status for %q: %v", svc, res.GetStatus())
		}
	}
}

func TestStartStopStatus(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := f.client.Start(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	var ack nidsmonv1.Ack
	if err := nidsmonv1.FromStruct(res, &ack); err != nil || ack.Status != "started" {
		t.Fatalf("start ack: %+v %v", ack, err)
	}

	st, err := f.client.Status(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var info monitorsvc.StatusInfo
	if err := nidsmonv1.FromStruct(st, &info); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !info.Running || info.Capacity != 50 {
		t.Fatalf("unexpected status: %+v", info)
	}

	res, err = f.client.Stop(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := nidsmonv1.FromStruct(res, &ack); err != nil || ack.Status != "stopped" {
		t.Fatalf("stop ack: %+v %v", ack, err)
	}
	if f.rt.Controller().Running() {
		t.Fatalf("controller still running")
	}
}

func TestRecent(t *testing.T) {
	f := newFixture(t)
	seed(f.rt, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, _ := nidsmonv1.ToStruct(nidsmonv1.RecentRequest{Severity: "alert"})
	res, err := f.client.Recent(ctx, req)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	var out nidsmonv1.RecentResponse
	if err := nidsmonv1.FromStruct(res, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Events) != 2 || out.Events[0].ID != "e2" || out.Events[1].ID != "e4" {
		t.Fatalf("unexpected events: %+v", out.Events)
	}

	res, err = f.client.Recent(ctx, &structpb.Struct{})
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if err := nidsmonv1.FromStruct(res, &out); err != nil || len(out.Events) != 5 {
		t.Fatalf("expected all 5 events, got %d (%v)", len(out.Events), err)
	}
}

func TestRecentInvalidFilter(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := nidsmonv1.ToStruct(nidsmonv1.RecentRequest{Filter: "severity =="})
	_, err := f.client.Recent(ctx, req)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestWatchStream(t *testing.T) {
	f := newFixture(t)
	seed(f.rt, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, _ := nidsmonv1.ToStruct(nidsmonv1.WatchRequest{From: "earliest", Limit: 3})
	stream, err := f.client.Watch(ctx, req)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		f.rt.Log().Append(event.New("late", "r", time.Now(), event.SeverityAlert, "192.168.1.50"))
	}()
	var ids []string
	for {
		msg, err := stream.Recv()
		if err != nil {
			break
		}
		var ev event.Event
		if err := nidsmonv1.FromStruct(msg, &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		ids = append(ids, ev.ID)
	}
	if len(ids) != 3 || ids[0] != "e1" || ids[2] != "late" {
		t.Fatalf("unexpected stream: %v", ids)
	}
}
