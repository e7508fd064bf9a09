// Package server wires the users API runtime: the SQLite store, the HTTP API
// and the gRPC health endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/statboard/internal/api/usersv1"
	"github.com/louisbranch/statboard/internal/platform/httpx"
	"github.com/louisbranch/statboard/internal/platform/timeouts"
	"github.com/louisbranch/statboard/internal/services/userstats/api/httpapi"
	"github.com/louisbranch/statboard/internal/services/userstats/storage"
	userssqlite "github.com/louisbranch/statboard/internal/services/userstats/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config defines startup inputs for the users API.
type Config struct {
	HTTPAddr   string
	HealthAddr string
	DBPath     string
	// Seed inserts demo users into an empty store.
	Seed bool
}

// Server hosts the users HTTP API, its health endpoint and storage.
type Server struct {
	httpListener   net.Listener
	healthListener net.Listener
	httpServer     *http.Server
	grpcServer     *grpc.Server
	health         *health.Server
	store          *userssqlite.Store
}

// New opens storage and binds both listeners.
func New(ctx context.Context, cfg Config) (*Server, error) {
	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join("data", "userstats.db")
	}
	store, err := openUsersStore(dbPath)
	if err != nil {
		return nil, err
	}
	if cfg.Seed {
		inserted, err := store.SeedUsers(ctx, storage.DemoUsers())
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}
		log.Printf("seeded users count=%d", inserted)
	}

	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	healthListener, err := net.Listen("tcp", cfg.HealthAddr)
	if err != nil {
		_ = httpListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HealthAddr, err)
	}

	mux := http.NewServeMux()
	httpapi.NewHandler(store).Register(mux)
	mux.HandleFunc(http.MethodGet+" /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	handler := httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID("userstats"),
		httpx.RequestLogger(log.Default()),
	)

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(usersv1.HealthService, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		httpListener:   httpListener,
		healthListener: healthListener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}, nil
}

// HTTPAddr returns the bound HTTP API address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// HealthAddr returns the bound gRPC health address.
func (s *Server) HealthAddr() string {
	if s == nil || s.healthListener == nil {
		return ""
	}
	return s.healthListener.Addr().String()
}

// Run creates and serves a users API server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs the HTTP API and the health endpoint until ctx is canceled or
// either of them fails.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("userstats listening http=%s health=%s", s.HTTPAddr(), s.HealthAddr())
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		if err := s.grpcServer.Serve(s.healthListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC health: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		s.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		err := s.httpServer.Shutdown(shutdownCtx)
		s.grpcServer.GracefulStop()
		if err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.healthListener != nil {
		_ = s.healthListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close users store: %v", err)
		}
	}
}

func openUsersStore(path string) (*userssqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := userssqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open users sqlite store: %w", err)
	}
	return store, nil
}
