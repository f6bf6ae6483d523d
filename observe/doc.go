// Package observe provides the telemetry used across the incident pipeline:
// a redacting JSON logger, OpenTelemetry tracer and meter providers, the
// dispatch counters, and a Middleware that instruments calls to the
// extraction service.
//
// Observer owns provider lifecycles. Components receive a Logger, a
// *DispatchMetrics or a *Middleware and never touch exporters directly.
package observe
