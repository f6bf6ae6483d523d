package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestActionForMethod(t *testing.T) {
	tests := map[string]string{
		http.MethodGet:    ActionRead,
		http.MethodHead:   ActionRead,
		http.MethodPost:   ActionWrite,
		http.MethodPatch:  ActionWrite,
		http.MethodPut:    ActionWrite,
		http.MethodDelete: ActionWrite,
	}
	for method, want := range tests {
		if got := ActionForMethod(method); got != want {
			t.Errorf("ActionForMethod(%s) = %v, want %v", method, got, want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	store := NewMemoryAPIKeyStore()
	store.Add(&APIKeyInfo{ID: "op", KeyHash: HashAPIKey("op-key"), Principal: "desk", Roles: []string{RoleOperator}})
	store.Add(&APIKeyInfo{ID: "ro", KeyHash: HashAPIKey("ro-key"), Principal: "wall", Roles: []string{RoleViewer}})

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(NewAPIKeyAuthenticator(APIKeyConfig{}, store), NewRoleAuthorizer(""), "incidents", nil)(next)

	tests := []struct {
		name          string
		method        string
		key           string
		wantCode      int
		wantPrincipal string
	}{
		{"operator posts", http.MethodPost, "op-key", http.StatusNoContent, "desk"},
		{"viewer reads", http.MethodGet, "ro-key", http.StatusNoContent, "wall"},
		{"viewer posts", http.MethodPost, "ro-key", http.StatusForbidden, ""},
		{"bad key", http.MethodGet, "nope", http.StatusUnauthorized, ""},
		{"no key", http.MethodGet, "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(tt.method, "/v1/incidents", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("Status code = %d, want %d", rr.Code, tt.wantCode)
			}
			if seen != tt.wantPrincipal {
				t.Errorf("principal = %q, want %q", seen, tt.wantPrincipal)
			}
			if tt.wantCode == http.StatusUnauthorized && rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestMiddleware_AuthenticatorError(t *testing.T) {
	handler := Middleware(NewAPIKeyAuthenticator(APIKeyConfig{}, failingStore{}), nil, "incidents", nil)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { t.Error("next should not run") }))
	req := httptest.NewRequest(http.MethodGet, "/v1/incidents", nil)
	req.Header.Set("X-API-Key", "k")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
