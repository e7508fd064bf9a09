// Package leaderboard hosts the browser-facing leaderboard dashboard.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/statboard/internal/platform/httpx"
	"github.com/louisbranch/statboard/internal/platform/timeouts"
	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
	"github.com/louisbranch/statboard/internal/services/leaderboard/routepath"
	"github.com/louisbranch/statboard/internal/services/leaderboard/session"
	leaderboardstatic "github.com/louisbranch/statboard/internal/services/leaderboard/static"
)

// Config defines startup inputs for the leaderboard service.
type Config struct {
	HTTPAddr     string
	Users        board.UsersAPI
	BufferPolicy board.BufferPolicy
	TopCount     int
	IdleTTL      time.Duration
	Logger       *log.Logger
}

// Server hosts the leaderboard HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Users == nil {
		return nil, errors.New("users api is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	boardOpts := []board.Option{
		board.WithBufferPolicy(cfg.BufferPolicy),
		board.WithTopCount(cfg.TopCount),
		board.WithLogf(logger.Printf),
	}
	registry := session.NewRegistry(func() *board.Board {
		return board.New(cfg.Users, boardOpts...)
	}, session.WithIdleTTL(cfg.IdleTTL))

	h := &handlers{sessions: registry, logf: logger.Printf}
	mux := http.NewServeMux()
	mux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(leaderboardstatic.FS))))
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.health)
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.page)
	mux.HandleFunc(http.MethodGet+" "+routepath.Leaderboard, h.fragment)
	mux.HandleFunc(http.MethodPost+" "+routepath.CellEditPattern, h.edit)
	mux.HandleFunc(http.MethodPost+" "+routepath.CellCommitPattern, h.commit)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID("leaderboard"),
		httpx.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs a leaderboard server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose leaderboard handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("leaderboard server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown leaderboard http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve leaderboard http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
