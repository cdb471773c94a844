// Package watch optionally exposes the solver's progress events over
// a WebSocket so an external monitor can observe a long run without
// touching stdout, which is reserved for the final JSON result.
// Adapted from the teacher's GraphQL-over-WebSocket bridge
// (internal/api/graphql_ws.go) down to a single broadcast stream.
package watch

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"gpsnav-cvrp/internal/progress"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// Server re-broadcasts progress.Events from a Broker to every
// connected WebSocket client as JSON frames.
type Server struct {
	broker progress.Broker
	http   *http.Server
}

// NewServer builds a watch Server listening at addr, streaming events
// from broker at /events.
func NewServer(addr string, broker progress.Broker) *Server {
	s := &Server{broker: broker}
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	s.http = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start begins serving in a background goroutine and returns at once;
// that goroutine logs any server error other than a normal close
// (normally via Shutdown).
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("watch: server error: %v", err)
		}
	}()
}

// Shutdown stops the HTTP server at once, closing its listener and
// any open connections.
func (s *Server) Shutdown() {
	_ = s.http.Close()
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(ch)

	// Drain client reads in the background purely to notice
	// disconnects; the watch protocol is one-directional.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
