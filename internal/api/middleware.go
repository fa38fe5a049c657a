package api

import (
	"errors"
	"net/http"
	"strings"

	"minichat-backend/internal/auth"
	"minichat-backend/pkg/httputil"

	"github.com/golang-jwt/jwt/v5"
)

// JwtAuthMiddleware verifies the JWT access token before admitting a request.
// The token is read from the Authorization header, or from the "token" query
// parameter as a fallback for websocket dials, where browsers cannot set
// headers.
func JwtAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ""

			authHeader := r.Header.Get("Authorization")
			switch {
			case authHeader != "":
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					httputil.RespondError(w, http.StatusUnauthorized, "Malformed Authorization header (Expected: Bearer <token>)")
					return
				}
				tokenString = parts[1]
			case r.URL.Query().Get("token") != "":
				tokenString = r.URL.Query().Get("token")
			default:
				httputil.RespondError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			if _, err := auth.ParseAccessToken(tokenString, jwtSecret); err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					httputil.RespondError(w, http.StatusUnauthorized, "Token has expired")
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
