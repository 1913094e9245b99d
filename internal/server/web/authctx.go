// Package web exposes the back-office HTTP API.
package web

import (
	"context"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// Identity is the caller resolved from a verified bearer token.
type Identity struct {
	UserID   int64
	Username string
	Role     model.Role
}

type ctxKey string

const identityKey ctxKey = "web.identity"

// WithIdentity stores the authenticated identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the authenticated identity from context.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
