package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/statboard/internal/api/usersv1"
	"github.com/louisbranch/statboard/internal/services/userstats/storage"
	"github.com/louisbranch/statboard/internal/stats"
)

type updateCall struct {
	UserID int64
	Kind   stats.Kind
	Value  int
}

type fakeStore struct {
	users     []stats.User
	listErr   error
	updateErr error
	topArgs   []int
	updates   []updateCall
}

func (f *fakeStore) ListUsers(context.Context) ([]stats.User, error) {
	return f.users, f.listErr
}

func (f *fakeStore) ListTopUsers(_ context.Context, n int) ([]stats.User, error) {
	f.topArgs = append(f.topArgs, n)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if n > len(f.users) {
		n = len(f.users)
	}
	return f.users[:n], nil
}

func (f *fakeStore) UpdateStat(_ context.Context, userID int64, kind stats.Kind, value int) error {
	f.updates = append(f.updates, updateCall{UserID: userID, Kind: kind, Value: value})
	return f.updateErr
}

func (f *fakeStore) SeedUsers(context.Context, []storage.NewUser) (int, error) {
	return 0, nil
}

func newMux(store *fakeStore) *http.ServeMux {
	mux := http.NewServeMux()
	h := NewHandler(store)
	h.logf = func(string, ...any) {}
	h.Register(mux)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []stats.User {
	t.Helper()
	var payload usersv1.ListUsersResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	return payload.Data
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	store := &fakeStore{users: []stats.User{{ID: 1, Username: "a", Stats: stats.Stats{KillCount: 10, DeathCount: 2}}}}
	rr := do(newMux(store), http.MethodGet, "/users", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content-type = %q", ct)
	}
	users := decodeList(t, rr)
	if len(users) != 1 || users[0] != store.users[0] {
		t.Fatalf("users = %+v, want %+v", users, store.users)
	}
}

func TestListUsersEmptyIsArray(t *testing.T) {
	t.Parallel()

	rr := do(newMux(&fakeStore{}), http.MethodGet, "/users", "")
	if got := strings.TrimSpace(rr.Body.String()); got != `{"data":[]}` {
		t.Fatalf("body = %s, want {\"data\":[]}", got)
	}
}

func TestListTopUsers(t *testing.T) {
	t.Parallel()

	store := &fakeStore{users: []stats.User{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}}
	rr := do(newMux(store), http.MethodGet, "/users?top=3", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if len(store.topArgs) != 1 || store.topArgs[0] != 3 {
		t.Fatalf("top args = %v, want [3]", store.topArgs)
	}
	if users := decodeList(t, rr); len(users) != 3 {
		t.Fatalf("len(users) = %d, want 3", len(users))
	}
}

func TestListTopUsersRejectsBadTop(t *testing.T) {
	t.Parallel()

	for _, target := range []string{"/users?top=0", "/users?top=-2", "/users?top=abc", "/users?top="} {
		rr := do(newMux(&fakeStore{}), http.MethodGet, target, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want %d", target, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestListUsersStorageFailure(t *testing.T) {
	t.Parallel()

	rr := do(newMux(&fakeStore{listErr: errors.New("disk on fire")}), http.MethodGet, "/users", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "disk on fire") {
		t.Fatalf("internal error leaked: %s", rr.Body.String())
	}
}

func TestUpdateStat(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	rr := do(newMux(store), http.MethodPut, "/users/1", `{"stat":"kill_count","value":15}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	want := updateCall{UserID: 1, Kind: stats.KillCount, Value: 15}
	if len(store.updates) != 1 || store.updates[0] != want {
		t.Fatalf("updates = %+v, want [%+v]", store.updates, want)
	}
}

func TestUpdateStatErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		body   string
		store  *fakeStore
		want   int
	}{
		{name: "bad id", target: "/users/abc", body: `{"stat":"kill_count","value":1}`, want: http.StatusBadRequest},
		{name: "bad stat", target: "/users/1", body: `{"stat":"score","value":1}`, want: http.StatusBadRequest},
		{name: "negative value", target: "/users/1", body: `{"stat":"death_count","value":-1}`, want: http.StatusBadRequest},
		{name: "malformed body", target: "/users/1", body: `{"stat":`, want: http.StatusBadRequest},
		{name: "unknown user", target: "/users/7", body: `{"stat":"kill_count","value":1}`, store: &fakeStore{updateErr: storage.ErrNotFound}, want: http.StatusNotFound},
		{name: "storage failure", target: "/users/1", body: `{"stat":"kill_count","value":1}`, store: &fakeStore{updateErr: errors.New("locked")}, want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := tc.store
			if store == nil {
				store = &fakeStore{}
			}
			rr := do(newMux(store), http.MethodPut, tc.target, tc.body)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d (body=%s)", rr.Code, tc.want, rr.Body.String())
			}
			var payload usersv1.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload.Error == "" {
				t.Fatal("error message is empty")
			}
		})
	}
}
