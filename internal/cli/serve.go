package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/incidentops/api"
	"github.com/jonwraymond/incidentops/auth"
	"github.com/jonwraymond/incidentops/config"
	"github.com/jonwraymond/incidentops/observe"
)

// NewServeCmd creates the 'serve' command.
func NewServeCmd(version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the dashboard API, health probes and Prometheus metrics.
The server drains in-flight requests on SIGINT or SIGTERM.`,
		Example: `  INCIDENTOPS_GEMINI_API_KEY=secretref:file:/run/secrets/gemini incidentops serve
  incidentops serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, true)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(ctx, cfg, version, cmd)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides INCIDENTOPS_ADDR)")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, version string, cmd *cobra.Command) error {
	a, err := newApp(ctx, cfg, version, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = a.Close(shutdownCtx)
	}()

	authn, err := buildAuthenticator(cfg.Auth)
	if err != nil {
		return err
	}
	var authz auth.Authorizer
	if authn != nil {
		authz = auth.NewRoleAuthorizer(cfg.Auth.DefaultRole)
	} else {
		a.logger.Warn(ctx, "no credentials configured; API is open")
	}

	srv, err := api.New(api.Config{
		Dispatcher:    a.coordinator,
		Monitor:       a.monitor,
		Authenticator: authn,
		Authorizer:    authz,
		Gatherer:      a.registry,
		Logger:        a.logger,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	a.logger.Info(ctx, "serving", observe.F("addr", ln.Addr().String()), observe.F("version", version))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildAuthenticator returns nil when no credential source is configured.
func buildAuthenticator(cfg config.AuthConfig) (auth.Authenticator, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	var authns []auth.Authenticator
	if len(cfg.APIKeys) > 0 {
		store, err := auth.ParseAPIKeys(cfg.APIKeys)
		if err != nil {
			return nil, err
		}
		authns = append(authns, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, store))
	}
	if cfg.JWTSecret != "" {
		jwtAuth, err := auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		})
		if err != nil {
			return nil, err
		}
		authns = append(authns, jwtAuth)
	}
	return auth.NewCompositeAuthenticator(authns...), nil
}
