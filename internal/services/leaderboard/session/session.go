// Package session gives each browser its own leaderboard board, keyed by a
// cookie-held session id.
package session

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
)

// CookieName is the session cookie name.
const CookieName = "statboard_session"

// DefaultIdleTTL is how long an untouched board is kept.
const DefaultIdleTTL = 30 * time.Minute

// Option configures a Registry.
type Option func(*Registry)

// WithIdleTTL sets the idle eviction window. Non-positive values are ignored.
func WithIdleTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.idleTTL = ttl
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

type entry struct {
	board    *board.Board
	lastSeen time.Time
}

// Registry maps session ids to boards. Idle boards are swept on access.
type Registry struct {
	newBoard func() *board.Board
	idleTTL  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry builds a registry that creates boards with newBoard.
func NewRegistry(newBoard func() *board.Board, opts ...Option) *Registry {
	r := &Registry{
		newBoard: newBoard,
		idleTTL:  DefaultIdleTTL,
		now:      time.Now,
		entries:  map[string]*entry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the board for the request's session, starting a new
// session (and setting its cookie) when there is none or it expired. created
// reports a fresh, not yet mounted board.
func (r *Registry) Resolve(w http.ResponseWriter, req *http.Request) (b *board.Board, created bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)

	if id, ok := readID(req); ok {
		if e, ok := r.entries[id]; ok {
			e.lastSeen = now
			return e.board, false
		}
	}

	id := uuid.NewString()
	e := &entry{board: r.newBoard(), lastSeen: now}
	r.entries[id] = e
	writeCookie(w, req, id)
	return e.board, true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) sweepLocked(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idleTTL {
			delete(r.entries, id)
		}
	}
}

func readID(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return "", false
	}
	parsed, err := uuid.Parse(strings.TrimSpace(cookie.Value))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func writeCookie(w http.ResponseWriter, r *http.Request, id string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r != nil && r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
