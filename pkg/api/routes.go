package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /api/search", s.RequireViewer(s.HandleSearch))
	mux.HandleFunc("GET /api/accounts", s.RequireViewer(s.HandleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.RequireAdmin(s.HandleAddAccount))
	mux.HandleFunc("DELETE /api/accounts/{handle}", s.RequireAdmin(s.HandleRemoveAccount))
	mux.HandleFunc("GET /api/history", s.RequireViewer(s.HandleHistory))
	mux.HandleFunc("GET /ws/search", s.RequireViewer(s.HandleSearchSocket))
	mux.HandleFunc("GET /health", s.HandleHealth)
}
