package auth

import (
	"context"
	"testing"
	"time"
)

func TestIdentity(t *testing.T) {
	now := time.Now()
	id := &Identity{Principal: "alice", Roles: []string{RoleViewer}, Method: AuthMethodJWT, ExpiresAt: now.Add(time.Minute)}

	if !id.HasRole(RoleViewer) || id.HasRole(RoleOperator) {
		t.Errorf("HasRole() mismatch for roles %v", id.Roles)
	}
	if id.IsExpired(now) {
		t.Error("IsExpired(now) = true, want false")
	}
	if !id.IsExpired(now.Add(2 * time.Minute)) {
		t.Error("IsExpired(later) = false, want true")
	}
	if id.IsAnonymous() {
		t.Error("IsAnonymous() = true, want false")
	}
	if (&Identity{}).IsExpired(now) {
		t.Error("zero ExpiresAt should never expire")
	}
}

func TestContextIdentity(t *testing.T) {
	ctx := context.Background()
	if IdentityFromContext(ctx) != nil || PrincipalFromContext(ctx) != "" {
		t.Error("empty context should carry no identity")
	}
	ctx = WithIdentity(ctx, &Identity{Principal: "alice"})
	if got := PrincipalFromContext(ctx); got != "alice" {
		t.Errorf("PrincipalFromContext() = %v, want alice", got)
	}
}
