// Package api implements the JSON endpoints and the websocket search
// stream. The HTML interface lives in cmd/web.go and shares this server's
// dependencies.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/spotterhq/spotter/pkg/config"
	"github.com/spotterhq/spotter/pkg/log"
	"github.com/spotterhq/spotter/pkg/search"
	"github.com/spotterhq/spotter/pkg/store"
)

type Server struct {
	service  *search.Service
	accounts store.AccountManager
	history  store.HistoryStore
	logger   *log.Logger

	authMu sync.RWMutex
	auth   config.AuthConfig
}

func NewServer(service *search.Service, accounts store.AccountManager, history store.HistoryStore) *Server {
	return &Server{
		service:  service,
		accounts: accounts,
		history:  history,
		logger:   log.ForService("api"),
	}
}

// SetAuth swaps the credential set. The config watcher calls this on
// reload so a password change takes effect without a restart.
func (s *Server) SetAuth(auth config.AuthConfig) {
	s.authMu.Lock()
	s.auth = auth
	s.authMu.Unlock()
}

func (s *Server) authConfig() config.AuthConfig {
	s.authMu.RLock()
	defer s.authMu.RUnlock()
	return s.auth
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
