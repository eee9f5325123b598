package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/2witstudios/pagespace/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// signInPath is where unauthenticated browser navigation lands. It must stay
// exempt from the gateway or the redirect would loop back onto itself.
const signInPath = "/auth/signin"

// gatewayExempt lists the paths reachable without a session: the ones that
// establish or tear one down, plus the sign-in page itself. Everything else,
// including /api/auth/csrf, requires a valid access token.
var gatewayExempt = map[string]struct{}{
	"/api/auth/signup":  {},
	"/api/auth/login":   {},
	"/api/auth/refresh": {},
	"/api/auth/logout":  {},
	signInPath:          {},
}

// gateway authenticates every request before routing. The access token
// travels in a cookie; a missing, malformed, expired, or revoked token gets
// a JSON 401 on API paths and a redirect to the sign-in page elsewhere.
// Mutating API requests must additionally present the session's CSRF token.
func (s *Server) gateway(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := gatewayExempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil {
			s.rejectUnauthenticated(w, r)
			return
		}

		claims, err := s.sessions.VerifySession(r.Context(), cookie.Value)
		if err != nil {
			s.rejectUnauthenticated(w, r)
			return
		}

		if mutating(r.Method) {
			if !s.sessions.VerifyCSRF(claims, r.Header.Get("X-CSRF-Token")) {
				writeError(w, http.StatusForbidden, "invalid csrf token")
				return
			}
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	http.Redirect(w, r, signInPath, http.StatusSeeOther)
}

// sessionClaims returns the claims the gateway attached to the request.
func sessionClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
