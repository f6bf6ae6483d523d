// Package cli implements the incidentops commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonwraymond/incidentops/cache"
	"github.com/jonwraymond/incidentops/cache/sqlitestore"
	"github.com/jonwraymond/incidentops/classifier"
	"github.com/jonwraymond/incidentops/classifier/gemini"
	"github.com/jonwraymond/incidentops/config"
	"github.com/jonwraymond/incidentops/dispatch"
	"github.com/jonwraymond/incidentops/health"
	"github.com/jonwraymond/incidentops/observe"
	"github.com/jonwraymond/incidentops/secret"
)

// app holds the wired process components.
type app struct {
	cfg         config.Config
	observer    observe.Observer
	logger      observe.Logger
	registry    *prometheus.Registry
	store       *sqlitestore.Store
	coordinator *dispatch.Coordinator
	monitor     *health.Monitor
}

// loadConfig reads, resolves and validates the environment configuration.
func loadConfig(ctx context.Context, requireGemini bool) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Resolve(ctx, secret.NewDefaultResolver()); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(requireGemini); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp wires storage, the classifier and the coordinator from cfg.
// Logs go to logOut.
func newApp(ctx context.Context, cfg config.Config, version string, logOut io.Writer) (_ *app, err error) {
	a := &app{cfg: cfg, registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	obsCfg := cfg.Observe.Observer(version)
	obsCfg.Metrics.Registerer = a.registry
	obsCfg.Logging.Writer = logOut
	a.observer, err = observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}
	a.logger = a.observer.Logger()

	a.store, err = sqlitestore.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	ic, err := cache.NewIncidentCache(a.store, cache.Policy{
		TTL:       cfg.Cache.TTL,
		Namespace: cfg.Cache.Namespace,
	})
	if err != nil {
		return nil, err
	}

	svc, err := gemini.New(gemini.Config{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		BaseURL:    cfg.Gemini.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Classifier.HTTPTimeout},
	})
	if err != nil {
		return nil, err
	}

	mw, err := observe.MiddlewareFromObserver(a.observer)
	if err != nil {
		return nil, fmt.Errorf("middleware: %w", err)
	}
	cls, err := classifier.New(svc, classifier.Config{
		MaxAttempts: cfg.Classifier.MaxAttempts,
		BaseDelay:   cfg.Classifier.BaseDelay,
		JitterMax:   cfg.Classifier.JitterMax,
		Logger:      a.logger,
		Middleware:  mw,
	})
	if err != nil {
		return nil, err
	}

	metrics, err := observe.NewDispatchMetrics(a.observer.Meter())
	if err != nil {
		return nil, fmt.Errorf("dispatch metrics: %w", err)
	}
	a.coordinator, err = dispatch.New(ctx, dispatch.Config{
		Cache:       ic,
		Classifier:  cls,
		ServicePing: svc.Ping,
		Metrics:     metrics,
		Logger:      a.logger,
		BoardLimit:  cfg.BoardLimit,
	})
	if err != nil {
		return nil, err
	}

	a.monitor = health.NewMonitor()
	for _, c := range a.coordinator.Checkers() {
		a.monitor.Register(c)
	}
	return a, nil
}

// Close flushes telemetry and closes storage.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.observer != nil {
		errs = append(errs, a.observer.Shutdown(ctx))
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
