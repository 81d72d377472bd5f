package middleware

import (
	"context"

	"github.com/AnshRaj112/contact-manager/internal/models"
)

type principalKey struct{}

// WithPrincipal attaches the authenticated principal to ctx.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal the gate attached, or nil for anonymous requests.
// Handlers call it once and pass the result to services explicitly.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(principalKey{}).(*models.Principal)
	return p
}
