package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spotterhq/spotter/pkg/search"
	"github.com/spotterhq/spotter/pkg/tweet"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The HTTP routes already allow any origin, the socket follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const socketWriteTimeout = 10 * time.Second

// HandleSearchSocket streams a search page by page. The client sends one
// request object after connecting; the server answers with one page
// message per fetched page and a final done message carrying the compiled
// query and the total count. Provider failures after the first page
// surface as a short stream, not an error, matching the HTTP search
// endpoint.
func (s *Server) HandleSearchSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	var sockReq socketRequest
	if err := conn.ReadJSON(&sockReq); err != nil {
		s.logger.Debugf("websocket request read failed: %v", err)
		return
	}

	req := search.Request{
		Phrase:     sockReq.Phrase,
		Mode:       sockReq.Mode,
		PageBudget: sockReq.Pages,
		Authors:    sockReq.Authors,
	}
	if req.Since, err = parseDate(sockReq.Since); err != nil {
		s.sendSocketError(conn, err.Error())
		return
	}
	if req.Until, err = parseDate(sockReq.Until); err != nil {
		s.sendSocketError(conn, err.Error())
		return
	}
	if req.Phrase == "" {
		s.sendSocketError(conn, "phrase is required")
		return
	}

	result, err := s.service.RunPages(r.Context(), req, func(page int, rows []tweet.Row) {
		s.sendSocket(conn, socketMessage{
			Type:   "page",
			Page:   page,
			Count:  len(rows),
			Tweets: rows,
		})
	})
	if err != nil {
		s.sendSocketError(conn, err.Error())
		return
	}

	s.sendSocket(conn, socketMessage{
		Type:    "done",
		Query:   result.Query,
		Authors: result.Authors,
		Count:   len(result.Rows),
	})
}

func (s *Server) sendSocket(conn *websocket.Conn, msg socketMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debugf("websocket write failed: %v", err)
	}
}

func (s *Server) sendSocketError(conn *websocket.Conn, message string) {
	s.sendSocket(conn, socketMessage{Type: "error", Message: message})
}
