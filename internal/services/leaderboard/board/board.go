// Package board holds the leaderboard's view state: the last fetched user
// lists, the buffer of unconfirmed edits and the per-cell edit state.
//
// The users API is the only source of truth. A Board never caches beyond
// the last successful fetch, and every failed remote call is logged and
// otherwise leaves the state as it was.
package board

import (
	"context"
	"fmt"
	"log"
	"sync"

	apperrors "github.com/louisbranch/statboard/internal/platform/errors"
	"github.com/louisbranch/statboard/internal/stats"
	"golang.org/x/sync/errgroup"
)

// DefaultTopCount is how many users the chart shows.
const DefaultTopCount = 3

// UsersAPI is the remote store the board reads from and writes to.
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]stats.User, error)
	ListTopUsers(ctx context.Context, n int) ([]stats.User, error)
	UpdateStat(ctx context.Context, userID int64, kind stats.Kind, value int) error
}

// Option configures a Board.
type Option func(*Board)

// WithTopCount sets the size of the top list requested for the chart.
func WithTopCount(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.topCount = n
		}
	}
}

// WithBufferPolicy selects how confirmed buffer entries are handled.
func WithBufferPolicy(policy BufferPolicy) Option {
	return func(b *Board) {
		b.policy = policy
	}
}

// WithLogf replaces the failure logger.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(b *Board) {
		if logf != nil {
			b.logf = logf
		}
	}
}

// Board is one viewer's leaderboard state. It is safe for concurrent use;
// the lock is never held across a remote call.
type Board struct {
	api      UsersAPI
	topCount int
	policy   BufferPolicy
	logf     func(format string, args ...any)

	mu       sync.Mutex
	users    []stats.User
	topUsers []stats.User
	buffer   EditBuffer
	states   map[CellKey]CellState
	// confirmed holds entries the server accepted but that no successful
	// refresh has shown yet. They retire on the next full refresh.
	confirmed EditBuffer
}

// New builds an empty board. Call Mount to load it.
func New(api UsersAPI, opts ...Option) *Board {
	b := &Board{
		api:      api,
		topCount: DefaultTopCount,
		policy:   RetireOnSuccess,
		logf:     log.Printf,
		users:    []stats.User{},
		topUsers: []stats.User{},
		buffer:   EditBuffer{},
		states:   map[CellKey]CellState{},

		confirmed: EditBuffer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// RefreshResult reports the outcome of each list fetch. A nil error means
// that list was replaced.
type RefreshResult struct {
	UsersErr error
	TopErr   error
}

// Err returns the first fetch failure, if any.
func (r RefreshResult) Err() error {
	if r.UsersErr != nil {
		return r.UsersErr
	}
	return r.TopErr
}

// CommitResult reports what a blur did.
type CommitResult struct {
	// Submitted is false when there was nothing buffered for the cell.
	Submitted bool
	Value     int
	Err       error
	// Refresh is only populated after a successful submit.
	Refresh RefreshResult
}

// Mount loads both lists, as on first display.
func (b *Board) Mount(ctx context.Context) RefreshResult {
	return b.Refresh(ctx)
}

// Refresh fetches the full list and the top list concurrently. Each list is
// replaced independently as its fetch succeeds.
func (b *Board) Refresh(ctx context.Context) RefreshResult {
	var (
		result RefreshResult
		g      errgroup.Group
	)
	g.Go(func() error {
		users, err := b.api.ListUsers(ctx)
		if err != nil {
			b.logf("fetch all users failed: err=%v", err)
			result.UsersErr = err
			return err
		}
		b.mu.Lock()
		b.users = nonNil(users)
		b.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		users, err := b.api.ListTopUsers(ctx, b.topCount)
		if err != nil {
			b.logf("fetch top users failed: top=%d err=%v", b.topCount, err)
			result.TopErr = err
			return err
		}
		b.mu.Lock()
		b.topUsers = nonNil(users)
		b.mu.Unlock()
		return nil
	})
	_ = g.Wait()
	if result.Err() == nil {
		b.retireConfirmed()
	}
	return result
}

// retireConfirmed drops confirmed entries now that both lists carry them.
// An entry typed over, or being submitted again, is left alone.
func (b *Board) retireConfirmed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, value := range b.confirmed {
		delete(b.confirmed, key)
		if current, ok := b.buffer[key]; !ok || current != value || b.states[key] == CellSubmitting {
			continue
		}
		delete(b.buffer, key)
		delete(b.states, key)
	}
}

// Edit buffers a keystroke for one cell.
func (b *Board) Edit(userID int64, kind stats.Kind, value int) error {
	if userID <= 0 {
		return apperrors.New(apperrors.CodeUserIDInvalid, fmt.Sprintf("invalid user id %d", userID))
	}
	if _, err := stats.ParseKind(string(kind)); err != nil {
		return err
	}
	if err := stats.ValidateValue(value); err != nil {
		return err
	}
	key := CellKey{UserID: userID, Kind: kind}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer[key] = value
	b.states[key] = CellEditing
	delete(b.confirmed, key)
	return nil
}

// Blur submits the buffered value of a cell. Without a buffered value it
// does nothing. On success both lists are fetched again, once, and the entry
// retires only when that re-fetch succeeded. On failure the typed value stays
// buffered and the cell is marked stuck.
func (b *Board) Blur(ctx context.Context, userID int64, kind stats.Kind) CommitResult {
	key := CellKey{UserID: userID, Kind: kind}

	b.mu.Lock()
	value, ok := b.buffer[key]
	if !ok {
		b.mu.Unlock()
		return CommitResult{}
	}
	b.states[key] = CellSubmitting
	b.mu.Unlock()

	result := CommitResult{Submitted: true, Value: value}
	if err := b.api.UpdateStat(ctx, userID, kind, value); err != nil {
		b.logf("update stat failed: user_id=%d stat=%s value=%d err=%v", userID, kind, value, err)
		result.Err = err

		b.mu.Lock()
		if current, ok := b.buffer[key]; ok && current == value {
			b.states[key] = CellStuck
		} else {
			b.states[key] = CellEditing
		}
		b.mu.Unlock()
		return result
	}

	result.Refresh = b.Refresh(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	current, ok := b.buffer[key]
	switch {
	case ok && current != value:
		// Typed again while the submit was in flight.
		b.states[key] = CellEditing
	case b.policy == RetireOnSuccess && result.Refresh.Err() == nil:
		delete(b.buffer, key)
		delete(b.states, key)
	case b.policy == RetireOnSuccess:
		// Confirmed but not re-fetched: the lists still hold the old value,
		// so the entry stays in front of them until a later refresh.
		b.confirmed[key] = value
		delete(b.states, key)
	default:
		delete(b.states, key)
	}
	return result
}

// State returns the edit state of one cell.
func (b *Board) State(userID int64, kind stats.Kind) CellState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[CellKey{UserID: userID, Kind: kind}]
}

// Buffered returns the unconfirmed value of one cell, if any.
func (b *Board) Buffered(userID int64, kind stats.Kind) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Get(CellKey{UserID: userID, Kind: kind})
}

func nonNil(users []stats.User) []stats.User {
	if users == nil {
		return []stats.User{}
	}
	return users
}
