package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/carli2/speech-server/internal/config"
	"github.com/carli2/speech-server/internal/transport"
)

// Server exposes the codec socket endpoint over HTTP:
//
//	GET /ws/socket/{id}  — upgrade to WebSocket, run a codec session
//	GET /healthz         — liveness probe
type Server struct {
	log      *zap.Logger
	cfg      *config.ServerConfig
	registry *transport.Registry
	httpSrv  *http.Server
	addr     string
}

// NewServer creates the HTTP server and its routes.
func NewServer(cfg *config.Config, registry *transport.Registry, logger *zap.Logger) *Server {
	s := &Server{
		log:      logger.Named("server"),
		cfg:      &cfg.Server,
		registry: registry,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/socket/{id}", s.handleSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpSrv = &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving on the configured address. It returns once the
// listener is bound; serving continues in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.log.Info("listening", zap.String("addr", s.addr))

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr reports the bound listen address once Start has returned.
func (s *Server) Addr() string {
	return s.addr
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", zap.String("session", id), zap.Error(err))
		return
	}

	sess := s.registry.Create(id, s.log)
	defer s.registry.Remove(id)

	if err := sess.Run(r.Context(), conn); err != nil {
		s.log.Warn("session ended with error", zap.String("session", id), zap.Error(err))
	}
	conn.Close(websocket.StatusNormalClosure, "session ended")
}
