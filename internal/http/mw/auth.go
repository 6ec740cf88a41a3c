// Package mw contains HTTP middleware and Huma registration helpers.
package mw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/auth"
)

// SecurityScheme is the name of the bearer security scheme in OpenAPI.
const SecurityScheme = "bearerAuth"

// ContextKey is a type for context keys.
type ContextKey string

// UserClaimsKey is the context key for verified caller claims.
const UserClaimsKey ContextKey = "user_claims"

// metaKeyRequireAdmin marks operations that need the admin role.
const metaKeyRequireAdmin = "requireAdmin"

// UserClaims is the verified identity attached to a request context.
type UserClaims struct {
	Subject string
	Admin   bool
}

// GetUserClaims retrieves caller claims from context, or nil.
func GetUserClaims(ctx context.Context) *UserClaims {
	claims, ok := ctx.Value(UserClaimsKey).(*UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// HumaAuth returns a Huma middleware enforcing bearer auth on
// operations that declare the security scheme, and the admin role on
// operations marked with WithAdmin. JWTs and mk_ API keys both work.
func HumaAuth(api huma.API, verifier *auth.Verifier) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op == nil || !operationRequiresAuth(op) {
			next(ctx)
			return
		}

		token := strings.TrimPrefix(ctx.Header("Authorization"), "Bearer ")
		if strings.TrimSpace(token) == "" {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing authorization header")
			return
		}

		verified, err := verifier.Verify(ctx.Context(), token)
		if err != nil {
			slog.Debug("auth validation failed", "error", err)
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		if requiresAdmin(op) && !verified.Admin {
			huma.WriteErr(api, ctx, http.StatusForbidden, "admin access required")
			return
		}

		claims := &UserClaims{Subject: verified.Subject, Admin: verified.Admin}
		next(huma.WithContext(ctx, context.WithValue(ctx.Context(), UserClaimsKey, claims)))
	}
}

func operationRequiresAuth(op *huma.Operation) bool {
	for _, secReq := range op.Security {
		if _, ok := secReq[SecurityScheme]; ok {
			return true
		}
	}
	return false
}

func requiresAdmin(op *huma.Operation) bool {
	if op.Metadata == nil {
		return false
	}
	b, _ := op.Metadata[metaKeyRequireAdmin].(bool)
	return b
}
