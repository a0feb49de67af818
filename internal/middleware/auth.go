package middleware

import (
	"net/http"

	"fraddriso20022/internal/auth"
	"fraddriso20022/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// RequireToken rejects requests without a valid HS256 token signed with
// secret, read from the Authorization header or the access_token cookie. An empty secret disables the check.
func RequireToken(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.BearerToken(r)
			if tokenStr == "" {
				utils.WriteJSONError(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				utils.WriteJSONError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				ctx = utils.SetSubjectContext(ctx, sub)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
