package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/engine"
)

// Server accepts WebSocket clients and relays between them and the
// room. It owns the connection registry; all game state lives behind
// the room's command goroutine.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	room        *Room
	logger      *log.Logger
	connections map[*Connection]bool
	mu          sync.RWMutex
}

// NewServer creates a WebSocket server in front of the room
func NewServer(addr string, room *Room, logger *log.Logger) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Single-trusted-host model; clients are not adversarial
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		room:        room,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
	}
	room.SetNotify(s.broadcast)
	return s
}

// Run serves until the context is cancelled. The room's command loop
// and the HTTP listener share one errgroup lifecycle.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{Addr: s.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.room.Run(ctx)
	})
	g.Go(func() error {
		s.logger.Info("Listening", "addr", s.addr)
		err := httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		s.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.room, s.logger)
	s.register(conn)
	conn.Start()

	go func() {
		<-conn.ctx.Done()
		s.unregister(conn)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	if id := conn.PlayerID(); id != "" {
		if err := s.room.Disconnect(id); err != nil {
			s.logger.Debug("Disconnect cleanup failed", "player", id, "error", err)
		}
	}
	_ = conn.Close()
	s.logger.Info("Client disconnected", "total", total)
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

// broadcast pushes a per-recipient state payload to every joined
// client. Runs on the room's command goroutine, so engine reads here
// are safe; the per-connection sends are buffered and non-blocking.
func (s *Server) broadcast(e *engine.Engine) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		id := conn.PlayerID()
		if id == "" {
			continue
		}
		msg, err := NewMessage(MessageTypeState, stateFor(e, id))
		if err != nil {
			s.logger.Error("Failed to encode state", "error", err)
			return
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send state", "player", id, "error", err)
		}
	}
}
