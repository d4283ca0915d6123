// Package runtime wires the in-memory store, the bounded event log, the
// generator and its controller into a single nidsmon instance. It exposes
// Open/Close, basic health checks and accessors used by higher-level services.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default(), Logger: logger})
//	defer rt.Close(context.Background())
//	_ = rt.CheckHealth(context.Background())
//	rt.Controller().Start()
//	events := rt.Log().Snapshot()
package runtime
