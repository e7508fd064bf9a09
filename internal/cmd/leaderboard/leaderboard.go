// Package leaderboard parses leaderboard service flags and launches the
// dashboard.
package leaderboard

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/statboard/internal/api/usersv1"
	entrypoint "github.com/louisbranch/statboard/internal/platform/cmd"
	"github.com/louisbranch/statboard/internal/platform/discovery"
	platformgrpc "github.com/louisbranch/statboard/internal/platform/grpc"
	"github.com/louisbranch/statboard/internal/platform/timeouts"
	leaderboardservice "github.com/louisbranch/statboard/internal/services/leaderboard"
	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
	"github.com/louisbranch/statboard/internal/services/leaderboard/usersapi"
)

// Config holds leaderboard command configuration.
type Config struct {
	HTTPAddr        string        `env:"STATBOARD_LEADERBOARD_HTTP_ADDR" envDefault:"localhost:8080"`
	UsersBaseURL    string        `env:"STATBOARD_LEADERBOARD_USERS_BASE_URL" envDefault:"http://localhost:8095"`
	UsersTimeout    time.Duration `env:"STATBOARD_LEADERBOARD_USERS_TIMEOUT" envDefault:"5s"`
	UsersHealthAddr string        `env:"STATBOARD_LEADERBOARD_USERS_HEALTH_ADDR"`
	BufferPolicy    string        `env:"STATBOARD_LEADERBOARD_BUFFER_POLICY" envDefault:"retire"`
	TopCount        int           `env:"STATBOARD_LEADERBOARD_TOP_COUNT" envDefault:"3"`
	SessionIdleTTL  time.Duration `env:"STATBOARD_LEADERBOARD_SESSION_IDLE_TTL" envDefault:"30m"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.UsersBaseURL, "users-base-url", cfg.UsersBaseURL, "Users API base URL")
	fs.StringVar(&cfg.UsersHealthAddr, "users-health-addr", cfg.UsersHealthAddr, "Users API gRPC health address to wait for (optional)")
	fs.StringVar(&cfg.BufferPolicy, "buffer-policy", cfg.BufferPolicy, "Edit buffer policy after a confirmed submit: retire or retain")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, err := board.ParseBufferPolicy(cfg.BufferPolicy); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the leaderboard dashboard.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLeaderboard, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	policy, err := board.ParseBufferPolicy(cfg.BufferPolicy)
	if err != nil {
		return err
	}
	baseURL := discovery.OrDefaultHTTPBaseURL(cfg.UsersBaseURL, discovery.ServiceUserStats)
	client, err := usersapi.NewClient(baseURL, usersapi.WithTimeout(cfg.UsersTimeout))
	if err != nil {
		return fmt.Errorf("users api client: %w", err)
	}

	if addr := strings.TrimSpace(cfg.UsersHealthAddr); addr != "" {
		log.Printf("waiting for users api health addr=%s", addr)
		if err := platformgrpc.WaitForDependency(ctx, addr, usersv1.HealthService, timeouts.HealthWait, log.Printf); err != nil {
			return fmt.Errorf("wait for users api: %w", err)
		}
	}

	server, err := leaderboardservice.NewServer(ctx, leaderboardservice.Config{
		HTTPAddr:     cfg.HTTPAddr,
		Users:        client,
		BufferPolicy: policy,
		TopCount:     cfg.TopCount,
		IdleTTL:      cfg.SessionIdleTTL,
		Logger:       log.Default(),
	})
	if err != nil {
		return fmt.Errorf("init leaderboard server: %w", err)
	}
	defer server.Close()

	log.Printf("leaderboard listening addr=%s users_base_url=%s buffer_policy=%s", server.Addr(), client.BaseURL(), policy)
	return server.ListenAndServe(ctx)
}
