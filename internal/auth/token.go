package auth

import (
	"net/http"
	"strings"
)

// TokenCookie is read when a request carries no Authorization header.
const TokenCookie = "access_token"

// BearerToken returns the token from "Authorization: Bearer <token>",
// falling back to the access_token cookie. It returns "" when neither is set.
func BearerToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}

	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}
