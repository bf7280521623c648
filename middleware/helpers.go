package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/services"
)

type contextKey string

const claimsContextKey contextKey = "claims"

var ErrNoClaims = errors.New("user claims not found in context")

func WithClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*services.Claims)
	return claims, ok && claims != nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, ErrNoClaims
	}
	return claims.UserID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", ErrNoClaims
	}
	return claims.Role, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
