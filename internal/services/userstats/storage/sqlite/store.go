// Package sqlite provides a SQLite-backed users storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/statboard/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/statboard/internal/services/userstats/storage"
	"github.com/louisbranch/statboard/internal/services/userstats/storage/sqlite/migrations"
	"github.com/louisbranch/statboard/internal/stats"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists users in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite users store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]stats.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, username, kill_count, death_count
		   FROM users
		  ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return scanUsers(rows, "list users")
}

// ListTopUsers returns at most n users ranked by score (kills minus deaths),
// ties broken by kills and then id.
func (s *Store) ListTopUsers(ctx context.Context, n int) ([]stats.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if n <= 0 {
		return nil, fmt.Errorf("top count must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, username, kill_count, death_count
		   FROM users
		  ORDER BY (kill_count - death_count) DESC, kill_count DESC, id ASC
		  LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("list top users: %w", err)
	}
	return scanUsers(rows, "list top users")
}

// UpdateStat sets one stat of one user.
func (s *Store) UpdateStat(ctx context.Context, userID int64, kind stats.Kind, value int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := stats.ValidateValue(value); err != nil {
		return err
	}

	var query string
	switch kind {
	case stats.KillCount:
		query = `UPDATE users SET kill_count = ?, updated_at = ? WHERE id = ?`
	case stats.DeathCount:
		query = `UPDATE users SET death_count = ?, updated_at = ? WHERE id = ?`
	default:
		_, err := stats.ParseKind(string(kind))
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, query, value, toMillis(s.now()), userID)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SeedUsers inserts users when the table is empty.
func (s *Store) SeedUsers(ctx context.Context, users []storage.NewUser) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	now := toMillis(s.now())
	inserted := 0
	for _, user := range users {
		username := strings.TrimSpace(user.Username)
		if username == "" {
			return 0, fmt.Errorf("username is required")
		}
		if err := stats.ValidateValue(user.Stats.KillCount); err != nil {
			return 0, err
		}
		if err := stats.ValidateValue(user.Stats.DeathCount); err != nil {
			return 0, err
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO users (username, kill_count, death_count, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			username,
			user.Stats.KillCount,
			user.Stats.DeathCount,
			now,
			now,
		)
		if err != nil {
			if isUsernameUniqueViolation(err) {
				return 0, storage.ErrAlreadyExists
			}
			return 0, fmt.Errorf("insert user %q: %w", username, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}
	return inserted, nil
}

func scanUsers(rows *sql.Rows, operation string) ([]stats.User, error) {
	defer rows.Close()

	users := make([]stats.User, 0)
	for rows.Next() {
		var user stats.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Stats.KillCount, &user.Stats.DeathCount); err != nil {
			return nil, fmt.Errorf("%s: %w", operation, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return users, nil
}

func isUsernameUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "users.username")
}

var _ storage.UserStore = (*Store)(nil)
