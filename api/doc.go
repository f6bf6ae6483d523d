// Package api serves the incident dashboard over HTTP.
//
// Routes under /v1 require operator credentials when an authenticator is
// configured. Health probes (/healthz, /readyz, /health) and Prometheus
// metrics (/metrics) are always open.
package api
