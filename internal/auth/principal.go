package auth

import (
	"context"

	"event-reservation/internal/model"

	"github.com/google/uuid"
)

// Principal is the authenticated actor behind a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// Anonymous is the zero principal; it is never permitted anything.
var Anonymous = Principal{}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil && p.Role.IsValid()
}

func (p Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == model.RoleAdmin
}

func PrincipalFor(u *model.User) Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

type principalKey struct{}

// WithPrincipal stores p on ctx for layers that only see a context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored on ctx, or Anonymous.
func FromContext(ctx context.Context) Principal {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return Anonymous
	}
	return p
}
