// Package monitorsvc is the query surface over the shared event log and the
// generator controller, consumed by the HTTP and gRPC transports.
//
// Start and Stop toggle the generator; Recent returns the whole current
// window. Search and Watch accept an optional CEL expression evaluated per
// event with the variables severity, source, host, text, run_id, ts_ms and
// now_ms, e.g. `severity == "ALERT" && host > 50`.
//
// Example:
//
//	svc := monitorsvc.New(rt, logger)
//	svc.Start(ctx)
//	evs := svc.Recent(ctx)
//	alerts, _ := svc.Search(ctx, monitorsvc.SearchOptions{Filter: `severity == "ALERT"`, Limit: 10})
//	_ = svc.Watch(ctx, monitorsvc.WatchOptions{FromStart: true}, mySink)
package monitorsvc
