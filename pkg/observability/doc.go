/*
Package observability provides metrics and tracing for the Aura agent.

Metrics are Prometheus collectors fed by the engine lifecycle hooks and by the completion
middleware. Tracing installs an OpenTelemetry TracerProvider; the engine opens one span per
run and one per node.
*/
package observability
