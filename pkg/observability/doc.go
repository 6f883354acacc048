/*
Package observability turns engine lifecycle events into Prometheus metrics and
structured log lines.

Both are exposed as domain.LifecycleHooks so they can be combined with
domain.ComposeHooks and passed to the engine:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng, _ := ussdsim.New(ussdsim.WithLifecycleHooks(domain.ComposeHooks(
		metrics.Hooks(),
		observability.LogHooks(logger),
	)))
*/
package observability
