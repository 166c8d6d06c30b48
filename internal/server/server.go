// Package server exposes a cleaning run over HTTP with a websocket control
// channel.
package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"robot-cleaners/internal/logging"
	"robot-cleaners/internal/sims/cleaners"

	"github.com/gorilla/websocket"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8521"

//go:embed static
var staticFiles embed.FS

// Options tunes a Server.
type Options struct {
	TPS       int
	AutoStart bool
	Logger    *slog.Logger
}

// Server wires the hub, the session and the HTTP handlers together.
type Server struct {
	hub     *Hub
	session *Session
	log     *slog.Logger

	upgrader websocket.Upgrader
	// ctx is the lifetime passed to Start; pumps stop with it.
	ctx context.Context
}

// New creates a server driving world. The world is owned by the server from
// here on.
func New(world *cleaners.World, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	hub := NewHub(log)
	return &Server{
		hub:     hub,
		session: NewSession(world, hub, opts.TPS, !opts.AutoStart, log),
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ctx: context.Background(),
	}
}

// Session returns the session owning the world.
func (s *Server) Session() *Session { return s.session }

// Start launches the hub and session loops. They stop when ctx ends.
func (s *Server) Start(ctx context.Context) {
	s.ctx = ctx
	go s.hub.Run(ctx)
	go s.session.Run(ctx)
}

// Handler returns the HTTP routes: the control page at / and the websocket
// at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	client := NewClient(s.hub, s.session, conn)
	if !s.hub.Register(s.ctx, client) {
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump(s.ctx)
	s.session.Submit(s.ctx, Command{Type: commandSync, client: client.id})
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	s.Start(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "session", s.session.ID())
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
