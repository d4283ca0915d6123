// Package httpserver provides the REST gateway for nidsmon: the embedded live
// monitor page, the legacy /start, /stop and /alerts poll endpoints, the
// versioned /v1 monitor API and an SSE tail of new events.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := httpserver.New(rt, monitorsvc.New(rt, logger), logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":5000")
package httpserver
