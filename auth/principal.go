package auth

import (
	"context"

	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID bson.ObjectID
	Email  string
	Role   models.Role
}

// IsAdmin reports whether the caller may use admin actions.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
