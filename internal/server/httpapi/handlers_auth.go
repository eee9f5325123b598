package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.sessions.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userJSON{ID: user.ID, Email: user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.setSessionCookies(w, pair)
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pair, err := s.sessions.Refresh(r.Context(), cookie.Value)
	if err != nil {
		s.clearSessionCookies(w)
		s.writeServiceError(w, r, err)
		return
	}
	s.setSessionCookies(w, pair)
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

// handleLogout always answers 200: an absent or already-revoked refresh
// token means there is nothing left to revoke.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var token string
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}

	if err := s.sessions.Logout(r.Context(), token); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

func (s *Server) handleCSRF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := sessionClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		CSRFToken string `json:"csrfToken"`
	}{CSRFToken: s.sessions.CSRFToken(claims)})
}

type okBody struct {
	OK bool `json:"ok"`
}
