package auth

import (
	"context"
	"errors"
	"testing"
)

func TestRoleAuthorizer(t *testing.T) {
	authz := NewRoleAuthorizer(RoleViewer)

	tests := []struct {
		name    string
		subject *Identity
		action  string
		allowed bool
	}{
		{"viewer reads", &Identity{Principal: "v", Roles: []string{RoleViewer}}, ActionRead, true},
		{"viewer writes", &Identity{Principal: "v", Roles: []string{RoleViewer}}, ActionWrite, false},
		{"operator writes", &Identity{Principal: "o", Roles: []string{RoleOperator}}, ActionWrite, true},
		{"no roles uses default", &Identity{Principal: "n"}, ActionRead, true},
		{"no roles cannot write", &Identity{Principal: "n"}, ActionWrite, false},
		{"unknown role", &Identity{Principal: "x", Roles: []string{"intern"}}, ActionRead, false},
		{"nil subject", nil, ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.Authorize(context.Background(), &AuthzRequest{Subject: tt.subject, Resource: "incidents", Action: tt.action})
			if (err == nil) != tt.allowed {
				t.Fatalf("Authorize() error = %v, allowed want %v", err, tt.allowed)
			}
			if err != nil && !errors.Is(err, ErrForbidden) {
				t.Errorf("errors.Is(err, ErrForbidden) = false for %v", err)
			}
		})
	}
}

func TestRoleAuthorizer_Wildcard(t *testing.T) {
	authz := &RoleAuthorizer{Grants: map[string][]string{"admin": {"*"}}}
	err := authz.Authorize(context.Background(), &AuthzRequest{Subject: &Identity{Roles: []string{"admin"}}, Action: "purge"})
	if err != nil {
		t.Errorf("Authorize() error = %v, want nil", err)
	}
}

func TestAuthzError_Message(t *testing.T) {
	err := &AuthzError{Subject: "v", Resource: "incidents", Action: "write", Reason: "nope"}
	want := `authorization denied: subject="v" resource="incidents" action="write" reason="nope"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
