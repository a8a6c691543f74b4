/*
Package observability turns orchestrator lifecycle callbacks into logs, Prometheus
metrics and OpenTelemetry spans.

Every helper returns a domain.LifecycleHooks value; combine them with domain.ChainHooks
and hand the result to runtime.WithLifecycleHooks.
*/
package observability
