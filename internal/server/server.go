package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
)

// Server accepts WebSocket clients and hands their traffic to the game
// service.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger
	service  *Service
	ctx      context.Context
	cancel   context.CancelFunc

	mu          sync.RWMutex
	connections map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
}

// NewServer builds a server for the given configuration.
func NewServer(cfg *Config, logger *log.Logger, clock quartz.Clock) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: cfg.ListenAddress(),
		upgrader: websocket.Upgrader{
			// Anyone may connect; the game holds no real money.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
	}
	s.service = NewService(cfg, s, logger, clock)
	return s
}

// Service exposes the game service, mainly for tests.
func (s *Server) Service() *Service {
	return s.service
}

// Start runs the connection loop and blocks serving HTTP.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.logger.Info("listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

// Stop closes every connection and stops the connection loop.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "player", conn.PlayerID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, known := s.connections[conn]
			if known {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()

			if known {
				// A dropped client leaves their table too.
				if tableName := conn.Table(); tableName != "" {
					_ = s.service.Leave(tableName, conn.PlayerID())
				}
				_ = conn.Close()
				s.logger.Info("client disconnected", "player", conn.PlayerID(), "total", total)
			}

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.service)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		// Stopped while accepting; the loop is gone, nobody will read.
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// BroadcastToTable sends a message to every connection seated at a table.
func (s *Server) BroadcastToTable(tableName string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.Table() == tableName {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("send failed", "player", conn.PlayerID(), "error", err)
			}
		}
	}
}

// SendToPlayer sends a message to one player's connection.
func (s *Server) SendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.PlayerID() == playerID {
			return conn.SendMessage(msg)
		}
	}
	return fmt.Errorf("player not connected: %s", playerID)
}
