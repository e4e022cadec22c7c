package api

import (
	"crypto/subtle"
	"net/http"
)

type role int

const (
	roleNone role = iota
	roleViewer
	roleAdmin
)

// authenticate maps the request's basic-auth credentials to a role. While
// no admin password is configured the gate is open and every request is
// treated as admin.
func (s *Server) authenticate(r *http.Request) role {
	auth := s.authConfig()
	if auth.Password == "" {
		return roleAdmin
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return roleNone
	}

	if credentialsMatch(user, pass, auth.Username, auth.Password) {
		return roleAdmin
	}
	if auth.ViewerPassword != "" && credentialsMatch(user, pass, auth.ViewerUsername, auth.ViewerPassword) {
		return roleViewer
	}
	return roleNone
}

func credentialsMatch(user, pass, wantUser, wantPass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) == 1
	return userOK && passOK
}

// RequireViewer admits both roles. Search and export endpoints use it.
func (s *Server) RequireViewer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authenticate(r) == roleNone {
			s.challenge(w)
			return
		}
		next(w, r)
	}
}

// RequireAdmin admits only the admin credentials. Account and history
// mutations use it.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch s.authenticate(r) {
		case roleAdmin:
			next(w, r)
		case roleViewer:
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			s.challenge(w)
		}
	}
}

func (s *Server) challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="spotter"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
