// Package userstats parses users API flags and launches the service.
package userstats

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/statboard/internal/platform/cmd"
	server "github.com/louisbranch/statboard/internal/services/userstats/app"
)

// Config holds userstats command configuration.
type Config struct {
	HTTPAddr   string `env:"STATBOARD_USERSTATS_HTTP_ADDR" envDefault:":8095"`
	HealthPort int    `env:"STATBOARD_USERSTATS_HEALTH_PORT" envDefault:"8096"`
	DBPath     string `env:"STATBOARD_USERSTATS_DB_PATH" envDefault:"data/userstats.db"`
	Seed       bool   `env:"STATBOARD_USERSTATS_SEED" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "Users API HTTP listen address")
	fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "gRPC health server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "Insert demo users into an empty database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the users API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceUserStats, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			HTTPAddr:   cfg.HTTPAddr,
			HealthAddr: fmt.Sprintf(":%d", cfg.HealthPort),
			DBPath:     cfg.DBPath,
			Seed:       cfg.Seed,
		})
	})
}
