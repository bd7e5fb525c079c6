package httpapi

import (
	"context"

	"github.com/dimba-league/dimba-api/internal/domain/user"
)

type contextKey string

const principalContextKey contextKey = "auth_principal"

func withPrincipal(ctx context.Context, p user.User) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.User, bool) {
	p, ok := ctx.Value(principalContextKey).(user.User)
	return p, ok
}
