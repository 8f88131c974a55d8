package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Clients authenticate with a token rather than cookies, so any origin
	// may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleEvents handles GET /events. The first message is the current
// state; every player event follows. Text messages from the client are
// decoded as CommandRequests.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	c := s.hub.subscribe()
	if c == nil {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.unsubscribe(c)
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	s.log.Debug("events client connected", "remote", r.RemoteAddr, "clients", s.hub.count())

	state := s.target.Snapshot()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(Message{Kind: KindState, State: &state}); err != nil {
		s.hub.unsubscribe(c)
		conn.Close()
		return
	}

	go s.writePump(conn, c)
	s.readPump(conn, c)
}

// readPump runs commands sent by the client until the connection fails.
func (s *Server) readPump(conn *websocket.Conn, c *client) {
	defer s.hub.unsubscribe(c)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("events client error", "error", err)
			}
			return
		}

		var req CommandRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.hub.sendTo(c, Message{Kind: KindError, Error: "invalid JSON"})
			continue
		}
		cmd, err := req.ToCommand()
		if err == nil {
			err = s.target.Dispatch(cmd)
		}
		if err != nil {
			s.hub.sendTo(c, Message{Kind: KindError, Error: err.Error()})
		}
	}
}

// writePump delivers queued messages and keeps the connection alive. It
// closes the connection when the client's queue is closed.
func (s *Server) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
