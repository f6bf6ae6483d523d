package auth

import (
	"context"
	"fmt"
	"slices"
)

// Actions exposed by the incident API.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// Built-in roles.
const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
)

// Authorizer determines if an identity is allowed to perform an action.
type Authorizer interface {
	// Authorize checks if the request is permitted.
	// Returns nil if authorized, or an error (typically *AuthzError) if denied.
	Authorize(ctx context.Context, req *AuthzRequest) error

	// Name returns a unique identifier for this authorizer.
	Name() string
}

// AuthzRequest contains the information needed for authorization.
type AuthzRequest struct {
	// Subject is the identity making the request.
	Subject *Identity

	// Resource is the target resource (e.g., "incidents", "preferences").
	Resource string

	// Action is the requested action (read or write).
	Action string
}

// AuthzError represents an authorization failure.
type AuthzError struct {
	Subject  string
	Resource string
	Action   string
	Reason   string
}

// Error returns the error message.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("authorization denied: subject=%q resource=%q action=%q reason=%q",
		e.Subject, e.Resource, e.Action, e.Reason)
}

// Is reports whether this error matches the target.
func (e *AuthzError) Is(target error) bool {
	return target == ErrForbidden
}

// AllowAllAuthorizer permits all requests.
type AllowAllAuthorizer struct{}

// Authorize always returns nil (permitted).
func (AllowAllAuthorizer) Authorize(context.Context, *AuthzRequest) error { return nil }

// Name returns "allow_all".
func (AllowAllAuthorizer) Name() string { return "allow_all" }

// AuthorizerFunc is an adapter to allow use of ordinary functions as Authorizers.
type AuthorizerFunc func(ctx context.Context, req *AuthzRequest) error

// Authorize calls the function.
func (f AuthorizerFunc) Authorize(ctx context.Context, req *AuthzRequest) error {
	return f(ctx, req)
}

// Name returns "func" for function-based authorizers.
func (f AuthorizerFunc) Name() string {
	return "func"
}

// RoleAuthorizer grants actions by role. Grants maps a role to the
// actions it may perform; "*" grants every action.
type RoleAuthorizer struct {
	Grants map[string][]string

	// DefaultRole is assumed for identities without roles.
	DefaultRole string
}

// NewRoleAuthorizer returns the built-in grants: viewers read, operators
// read and write. Identities without roles are treated as defaultRole.
func NewRoleAuthorizer(defaultRole string) *RoleAuthorizer {
	return &RoleAuthorizer{
		Grants: map[string][]string{
			RoleViewer:   {ActionRead},
			RoleOperator: {ActionRead, ActionWrite},
		},
		DefaultRole: defaultRole,
	}
}

// Name returns "role".
func (a *RoleAuthorizer) Name() string { return "role" }

// Authorize permits the request when any of the subject's roles grants
// the action.
func (a *RoleAuthorizer) Authorize(_ context.Context, req *AuthzRequest) error {
	if req.Subject == nil {
		return &AuthzError{
			Resource: req.Resource,
			Action:   req.Action,
			Reason:   "no identity provided",
		}
	}

	roles := req.Subject.Roles
	if len(roles) == 0 && a.DefaultRole != "" {
		roles = []string{a.DefaultRole}
	}
	for _, role := range roles {
		actions := a.Grants[role]
		if slices.Contains(actions, "*") || slices.Contains(actions, req.Action) {
			return nil
		}
	}

	return &AuthzError{
		Subject:  req.Subject.Principal,
		Resource: req.Resource,
		Action:   req.Action,
		Reason:   "no role permits this action",
	}
}

var (
	_ Authorizer = AllowAllAuthorizer{}
	_ Authorizer = AuthorizerFunc(nil)
	_ Authorizer = (*RoleAuthorizer)(nil)
)
