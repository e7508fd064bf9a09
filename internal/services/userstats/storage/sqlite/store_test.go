package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/louisbranch/statboard/internal/platform/errors"
	"github.com/louisbranch/statboard/internal/services/userstats/storage"
	"github.com/louisbranch/statboard/internal/stats"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "userstats.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := first.SeedUsers(context.Background(), storage.DemoUsers()); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	users, err := second.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != len(storage.DemoUsers()) {
		t.Fatalf("len(users) = %d, want %d", len(users), len(storage.DemoUsers()))
	}
}

func TestListUsersEmpty(t *testing.T) {
	t.Parallel()

	users, err := openTempStore(t).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("users = %#v, want empty slice", users)
	}
}

func TestSeedUsersOnlyWhenEmpty(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seed := []storage.NewUser{
		{Username: "a", Stats: stats.Stats{KillCount: 10, DeathCount: 2}},
		{Username: "b", Stats: stats.Stats{KillCount: 1, DeathCount: 1}},
	}
	inserted, err := store.SeedUsers(context.Background(), seed)
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}
	inserted, err = store.SeedUsers(context.Background(), seed)
	if err != nil {
		t.Fatalf("seed users again: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("second seed inserted = %d, want 0", inserted)
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	want := stats.User{ID: 1, Username: "a", Stats: stats.Stats{KillCount: 10, DeathCount: 2}}
	if len(users) != 2 || users[0] != want {
		t.Fatalf("users = %+v, want first %+v", users, want)
	}
}

func TestSeedUsersRejectsDuplicateUsernames(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.SeedUsers(context.Background(), []storage.NewUser{{Username: "a"}, {Username: "a"}})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("err = %v, want %v", err, storage.ErrAlreadyExists)
	}
	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("len(users) = %d, want rollback to 0", len(users))
	}
}

func TestListTopUsersRanksByScore(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seed(t, store,
		storage.NewUser{Username: "low", Stats: stats.Stats{KillCount: 1, DeathCount: 5}},
		storage.NewUser{Username: "tie-few-kills", Stats: stats.Stats{KillCount: 4, DeathCount: 0}},
		storage.NewUser{Username: "best", Stats: stats.Stats{KillCount: 20, DeathCount: 2}},
		storage.NewUser{Username: "tie-many-kills", Stats: stats.Stats{KillCount: 9, DeathCount: 5}},
		storage.NewUser{Username: "tie-many-kills-later", Stats: stats.Stats{KillCount: 9, DeathCount: 5}},
	)

	top, err := store.ListTopUsers(context.Background(), 4)
	if err != nil {
		t.Fatalf("list top users: %v", err)
	}
	want := []string{"best", "tie-many-kills", "tie-many-kills-later", "tie-few-kills"}
	if len(top) != len(want) {
		t.Fatalf("len(top) = %d, want %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].Username != name {
			t.Fatalf("top[%d] = %q, want %q", i, top[i].Username, name)
		}
	}
}

func TestListTopUsersBoundedByUserCount(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seed(t, store, storage.NewUser{Username: "only"})
	top, err := store.ListTopUsers(context.Background(), 30)
	if err != nil {
		t.Fatalf("list top users: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("len(top) = %d, want 1", len(top))
	}
	if _, err := store.ListTopUsers(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero top count")
	}
}

func TestUpdateStat(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seed(t, store, storage.NewUser{Username: "a", Stats: stats.Stats{KillCount: 10, DeathCount: 2}})

	if err := store.UpdateStat(context.Background(), 1, stats.KillCount, 15); err != nil {
		t.Fatalf("update kill_count: %v", err)
	}
	if err := store.UpdateStat(context.Background(), 1, stats.DeathCount, 4); err != nil {
		t.Fatalf("update death_count: %v", err)
	}
	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	want := stats.Stats{KillCount: 15, DeathCount: 4}
	if users[0].Stats != want {
		t.Fatalf("stats = %+v, want %+v", users[0].Stats, want)
	}
}

func TestUpdateStatErrors(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seed(t, store, storage.NewUser{Username: "a"})

	if err := store.UpdateStat(context.Background(), 99, stats.KillCount, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown user err = %v, want %v", err, storage.ErrNotFound)
	}
	err := store.UpdateStat(context.Background(), 1, stats.Kind("score"), 1)
	if got := apperrors.CodeOf(err); got != apperrors.CodeStatKindInvalid {
		t.Fatalf("unknown stat code = %v, want %v", got, apperrors.CodeStatKindInvalid)
	}
	err = store.UpdateStat(context.Background(), 1, stats.KillCount, -1)
	if got := apperrors.CodeOf(err); got != apperrors.CodeStatValueInvalid {
		t.Fatalf("negative value code = %v, want %v", got, apperrors.CodeStatValueInvalid)
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ListUsers(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want %v", err, context.Canceled)
	}
}

func seed(t *testing.T, store *Store, users ...storage.NewUser) {
	t.Helper()
	if _, err := store.SeedUsers(context.Background(), users); err != nil {
		t.Fatalf("seed users: %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "userstats.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
