package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
	"github.com/louisbranch/statboard/internal/stats"
)

type emptyAPI struct{}

func (emptyAPI) ListUsers(context.Context) ([]stats.User, error) { return nil, nil }

func (emptyAPI) ListTopUsers(context.Context, int) ([]stats.User, error) { return nil, nil }

func (emptyAPI) UpdateStat(context.Context, int64, stats.Kind, int) error { return nil }

func newBoard() *board.Board {
	return board.New(emptyAPI{})
}

func TestResolveStartsSessionAndSetsCookie(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(newBoard)
	rr := httptest.NewRecorder()
	b, created := registry.Resolve(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if b == nil || !created {
		t.Fatalf("Resolve = (%v, %v), want new board", b, created)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies = %+v, want %s", cookies, CookieName)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("session cookie is not HttpOnly")
	}
	if registry.Len() != 1 {
		t.Fatalf("Len = %d, want 1", registry.Len())
	}
}

func TestResolveReusesBoardForCookie(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(newBoard)
	rr := httptest.NewRecorder()
	first, _ := registry.Resolve(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := rr.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	second, created := registry.Resolve(rr, req)
	if created {
		t.Fatal("created = true, want existing session")
	}
	if second != first {
		t.Fatal("Resolve returned a different board for the same session")
	}
	if got := len(rr.Result().Cookies()); got != 0 {
		t.Fatalf("cookies written = %d, want 0", got)
	}
}

func TestResolveIgnoresMalformedCookie(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(newBoard)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	_, created := registry.Resolve(httptest.NewRecorder(), req)
	if !created {
		t.Fatal("created = false, want new session")
	}
}

func TestResolveEvictsIdleSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	registry := NewRegistry(newBoard, WithIdleTTL(time.Minute), WithClock(func() time.Time { return now }))

	rr := httptest.NewRecorder()
	first, _ := registry.Resolve(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := rr.Result().Cookies()[0]

	now = now.Add(2 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	second, created := registry.Resolve(httptest.NewRecorder(), req)
	if !created {
		t.Fatal("created = false, want expired session replaced")
	}
	if second == first {
		t.Fatal("expired board was reused")
	}
	if registry.Len() != 1 {
		t.Fatalf("Len = %d, want 1", registry.Len())
	}
}
