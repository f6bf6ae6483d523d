package auth

import (
	"errors"
	"net/http"

	"github.com/jonwraymond/incidentops/observe"
)

// ActionForMethod maps safe HTTP methods to ActionRead and all others to
// ActionWrite.
func ActionForMethod(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	default:
		return ActionWrite
	}
}

// Middleware authenticates and authorizes requests before they reach next.
// Unauthenticated requests get 401, denied requests 403, and internal
// authenticator failures 500. The identity is attached to the request
// context on success.
func Middleware(authn Authenticator, authz Authorizer, resource string, logger observe.Logger) func(http.Handler) http.Handler {
	if authz == nil {
		authz = AllowAllAuthorizer{}
	}
	if logger == nil {
		logger = observe.NopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			result, err := authn.Authenticate(ctx, &AuthRequest{Headers: r.Header})
			if err != nil {
				logger.Error(ctx, "authentication failed", observe.F("error", err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !result.Authenticated {
				logger.Debug(ctx, "request unauthenticated",
					observe.F("method", result.Method),
					observe.F("error", result.Error))
				w.Header().Set("WWW-Authenticate", `Bearer realm="incidentops"`)
				http.Error(w, unauthorizedMessage(result.Error), http.StatusUnauthorized)
				return
			}

			id := result.Identity
			err = authz.Authorize(ctx, &AuthzRequest{
				Subject:  id,
				Resource: resource,
				Action:   ActionForMethod(r.Method),
			})
			if err != nil {
				logger.Info(ctx, "request forbidden",
					observe.F("principal", id.Principal),
					observe.F("error", err))
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
		})
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "credentials expired"
	case errors.Is(err, ErrMissingCredentials), err == nil:
		return "missing credentials"
	default:
		return "invalid credentials"
	}
}
