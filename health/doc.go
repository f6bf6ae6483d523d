// Package health runs component checks for the incident service.
//
// A Checker reports a Result with a Status: Healthy, Degraded or Unhealthy.
// A Monitor runs registered checkers and folds them into a Report, which
// backs the /healthz, /readyz and /health endpoints:
//
//	mon := health.NewMonitor()
//	mon.Register(health.PingFunc("storage", store.Ping))
//	health.RegisterHandlers(mux, mon)
//
// Diagnostics are the operator-facing self test. RunDiagnostics executes
// checkers one after another in the order given and records each as PASS
// or FAIL with its duration:
//
//	log := health.RunDiagnostics(ctx, storageCheck, digestCheck)
//	pct := health.PassingPercent(log)
package health
