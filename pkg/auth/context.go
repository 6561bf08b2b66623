package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// ContextKeyClaims is the context key for the validated token claims
const ContextKeyClaims contextKey = "claims"

// WithClaims adds validated token claims to the context
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// ClaimsFromContext retrieves the validated token claims from the context
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(jwt.MapClaims)
	return claims, ok
}

// SubjectFromContext returns the authenticated observer's subject claim
func SubjectFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
