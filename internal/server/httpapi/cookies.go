package httpapi

import (
	"net/http"

	"github.com/2witstudios/pagespace/internal/server/services"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (s *Server) sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

func (s *Server) setSessionCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, s.sessionCookie(accessTokenCookie, pair.AccessToken, int(s.accessMaxAge.Seconds())))
	http.SetCookie(w, s.sessionCookie(refreshTokenCookie, pair.RefreshToken, int(s.refreshMaxAge.Seconds())))
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, s.sessionCookie(accessTokenCookie, "", -1))
	http.SetCookie(w, s.sessionCookie(refreshTokenCookie, "", -1))
}
