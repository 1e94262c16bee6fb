package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // single-user daemon behind localhost
	},
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsPongTimeout  = wsPingInterval + wsWriteTimeout
)

// handleDashboardStream handles GET /api/dashboard/stream: upgrades to
// a WebSocket and pushes every dashboard snapshot as it lands. The
// current snapshot is sent immediately on connect so the client never
// starts blank.
func (s *Server) handleDashboardStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	snapshots, cancel := s.app.Dashboard.Subscribe()
	defer cancel()

	s.logger.Debug().Str("remote", r.RemoteAddr).Msg("Dashboard stream connected")

	// Reader goroutine: deliver close notification, discard everything
	// else. The read deadline is refreshed on each pong so a peer that
	// stops answering pings is dropped instead of lingering.
	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(s.app.Dashboard.Current()); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(snap); err != nil {
				s.logger.Trace().Err(err).Msg("Dashboard stream write failed")
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			s.logger.Debug().Str("remote", r.RemoteAddr).Msg("Dashboard stream closed")
			return
		}
	}
}
