/*
Package observability turns scheduler lifecycle events into logs and
Prometheus metrics.

Every observer is a domain.LifecycleHooks value; Chain merges several of them
so an application can log and count the same events:

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	...
	app := arbor.New(
		arbor.WithMetrics(metrics),
		arbor.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
*/
package observability
