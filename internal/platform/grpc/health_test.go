package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const testService = "userstats.Users"

func TestWaitForHealthServing(t *testing.T) {
	srv := startHealthServer(t, grpc_health_v1.HealthCheckResponse_SERVING)
	conn := dialHealthServer(t, srv.addr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := WaitForHealth(ctx, conn, testService, nil); err != nil {
		t.Fatalf("wait for health: %v", err)
	}
}

func TestWaitForHealthTransitionsToServing(t *testing.T) {
	srv := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	conn := dialHealthServer(t, srv.addr)

	go func() {
		time.Sleep(200 * time.Millisecond)
		srv.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var logged []string
	logf := func(format string, _ ...any) { logged = append(logged, format) }
	if err := WaitForHealth(ctx, conn, testService, logf); err != nil {
		t.Fatalf("wait for health after transition: %v", err)
	}
	if len(logged) < 2 {
		t.Fatalf("log calls = %d, want at least one wait and one serving line", len(logged))
	}
}

func TestWaitForHealthRespectsContext(t *testing.T) {
	srv := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	conn := dialHealthServer(t, srv.addr)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := WaitForHealth(ctx, conn, testService, nil); err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestWaitForHealthRequiresConnection(t *testing.T) {
	if err := WaitForHealth(context.Background(), nil, testService, nil); err == nil {
		t.Fatal("expected missing connection error")
	}
}

type testHealthServer struct {
	addr      string
	setStatus func(grpc_health_v1.HealthCheckResponse_ServingStatus)
}

func startHealthServer(t *testing.T, status grpc_health_v1.HealthCheckResponse_ServingStatus) testHealthServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	grpcServer := gogrpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(testService, status)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	t.Cleanup(func() {
		grpcServer.GracefulStop()
		_ = listener.Close()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
		}
	})

	return testHealthServer{
		addr: listener.Addr().String(),
		setStatus: func(next grpc_health_v1.HealthCheckResponse_ServingStatus) {
			healthServer.SetServingStatus(testService, next)
		},
	}
}

func dialHealthServer(t *testing.T, addr string) *gogrpc.ClientConn {
	t.Helper()

	conn, err := gogrpc.NewClient(
		addr,
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial health server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
