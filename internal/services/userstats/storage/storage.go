// Package storage defines persistence contracts for the users API.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/statboard/internal/stats"
)

var (
	// ErrNotFound indicates a requested user record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a username is already taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// NewUser is a user record before it has an id.
type NewUser struct {
	Username string
	Stats    stats.Stats
}

// UserStore persists user records and their stats.
type UserStore interface {
	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]stats.User, error)
	// ListTopUsers returns at most n users ordered by score, then kills,
	// then id.
	ListTopUsers(ctx context.Context, n int) ([]stats.User, error)
	// UpdateStat sets one stat of one user.
	UpdateStat(ctx context.Context, userID int64, kind stats.Kind, value int) error
	// SeedUsers inserts users only when the store is empty and reports how
	// many were inserted.
	SeedUsers(ctx context.Context, users []NewUser) (int, error)
}

// DemoUsers is the roster inserted by the -seed flag.
func DemoUsers() []NewUser {
	return []NewUser{
		{Username: "alice", Stats: stats.Stats{KillCount: 42, DeathCount: 7}},
		{Username: "bruno", Stats: stats.Stats{KillCount: 35, DeathCount: 12}},
		{Username: "carla", Stats: stats.Stats{KillCount: 28, DeathCount: 3}},
		{Username: "diego", Stats: stats.Stats{KillCount: 19, DeathCount: 19}},
		{Username: "erin", Stats: stats.Stats{KillCount: 11, DeathCount: 20}},
		{Username: "farah", Stats: stats.Stats{KillCount: 9, DeathCount: 1}},
		{Username: "gus", Stats: stats.Stats{KillCount: 3, DeathCount: 14}},
		{Username: "hana", Stats: stats.Stats{KillCount: 0, DeathCount: 0}},
	}
}
