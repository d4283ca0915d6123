// Package generator produces synthetic network-activity events at randomized
// intervals and appends them to a Sink (normally the shared event log).
//
// One cycle sleeps a uniform duration in [MinInterval, MaxInterval], classifies
// the event as ALERT with probability AlertProbability (INFO otherwise), picks a
// host suffix uniformly in [HostMin, HostMax] and appends the event. Run loops
// until its context is cancelled; cancellation is observed both at the top of
// each cycle and during the sleep, so a cancelled run never appends again.
//
//	g := generator.New(log, generator.DefaultConfig(), logger)
//	go g.Run(ctx, runID)
package generator
