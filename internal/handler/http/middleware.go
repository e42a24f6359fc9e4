package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/chopie/restaurant/internal/models"
	"github.com/chopie/restaurant/internal/service"
)

type contextKey string

const authPayloadKey contextKey = "auth_payload"

// AuthMiddleware extracts the bearer token, verifies it and passes the
// payload down through the request context
func AuthMiddleware(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				respondErr(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}

			payload, err := ts.VerifyToken(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				respondErr(w, http.StatusUnauthorized, "not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), authPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission rejects requests whose role lacks the permission
func RequirePermission(perm service.Permission) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := getAuthPayload(r.Context())
			if !ok || !service.Allowed(payload.Role, perm) {
				respondErr(w, http.StatusForbidden, "access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getAuthPayload extracts authorization token payload from context
func getAuthPayload(ctx context.Context) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(authPayloadKey).(*models.TokenPayload)
	return payload, ok && payload != nil
}
