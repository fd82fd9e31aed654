package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rcandido/listou/internal/auth"
)

// RequireAuth resolves the bearer token into an AuthContext on the request.
// The token is read from the Authorization header, or from the token query
// parameter for WebSocket upgrades where browsers cannot set headers.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, "missing token")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := auth.WithAuth(r.Context(), auth.AuthContext{
				UserID: claims.UserID,
				Nome:   claims.Nome,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return r.URL.Query().Get("token")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
