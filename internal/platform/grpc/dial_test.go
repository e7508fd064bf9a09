package grpc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestWaitForDependencySuccess(t *testing.T) {
	srv := startHealthServer(t, grpc_health_v1.HealthCheckResponse_SERVING)

	if err := WaitForDependency(context.Background(), srv.addr, testService, 2*time.Second, nil); err != nil {
		t.Fatalf("wait for dependency: %v", err)
	}
}

func TestWaitForDependencyReportsHealthStage(t *testing.T) {
	srv := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	err := WaitForDependency(context.Background(), srv.addr, testService, 300*time.Millisecond, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var dialErr *DialError
	if !errors.As(err, &dialErr) {
		t.Fatalf("expected DialError, got %T", err)
	}
	if dialErr.Stage != DialStageHealth {
		t.Fatalf("stage = %q, want %q", dialErr.Stage, DialStageHealth)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestWaitForDependencyRequiresAddress(t *testing.T) {
	err := WaitForDependency(context.Background(), "  ", testService, time.Second, nil)
	var dialErr *DialError
	if !errors.As(err, &dialErr) || dialErr.Stage != DialStageConnect {
		t.Fatalf("err = %v, want connect-stage DialError", err)
	}
}

func TestDialErrorFormatting(t *testing.T) {
	err := &DialError{Stage: DialStageHealth, Err: errors.New("not serving")}
	if !strings.Contains(err.Error(), "gRPC health error: not serving") {
		t.Fatalf("Error() = %q", err.Error())
	}
	var nilErr *DialError
	if nilErr.Error() != "gRPC dial error" {
		t.Fatalf("nil Error() = %q", nilErr.Error())
	}
	if nilErr.Unwrap() != nil {
		t.Fatal("nil Unwrap() should be nil")
	}
}
