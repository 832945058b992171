// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/constants"
	"github.com/taibuivan/stager/internal/platform/ctxutil"
	"github.com/taibuivan/stager/internal/platform/respond"
	"github.com/taibuivan/stager/internal/platform/sec"
)

// TokenVerifier verifies bearer tokens issued by the identity provider.
//
// The API never issues tokens itself, it only checks them against the
// configured public key. [sec.TokenService] satisfies this.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Without an Authorization header the request proceeds anonymously.
//  2. A malformed header or a token failing verification answers 401.
//  3. Valid claims are attached to the context with [ctxutil.WithAuthUser].
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// 1. Anonymous
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Scheme
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// 3. Verification
			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose caller does not hold at least the given
// role. It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin is shorthand for RequireRole(sec.RoleAdmin).
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(sec.RoleAdmin)(next)
}

// AccountChecker refuses callers whose account was deactivated after their
// token was issued.
type AccountChecker interface {
	CheckActive(ctx context.Context, userID string) error
}

// RequireActive blocks authenticated callers the checker refuses. Admin
// tokens bypass it so the first administrator can register accounts.
//
// Must be registered after [RequireAuth].
func RequireActive(checker AccountChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims != nil && !claims.IsAdmin() {
				if err := checker.CheckActive(request.Context(), claims.UserID); err != nil {
					respond.Error(writer, request, err)
					return
				}
			}
			next.ServeHTTP(writer, request)
		})
	}
}
