package usersapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louisbranch/statboard/internal/api/usersv1"
	apperrors "github.com/louisbranch/statboard/internal/platform/errors"
	"github.com/louisbranch/statboard/internal/stats"
)

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "ftp://example.com", "http://", "://nope"} {
		if _, err := NewClient(raw); err == nil {
			t.Fatalf("NewClient(%q) error = nil, want error", raw)
		}
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://localhost:8095/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := client.BaseURL(); got != "http://localhost:8095" {
		t.Fatalf("BaseURL = %q, want %q", got, "http://localhost:8095")
	}
}

func TestListUsersDecodesData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != usersv1.PathUsers {
			t.Errorf("request = %s %s, want GET %s", r.Method, r.URL.Path, usersv1.PathUsers)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":1,"username":"a","stats":{"kill_count":5,"death_count":2}},{"id":2,"username":"b","stats":{"kill_count":1,"death_count":3}}]}`))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL)
	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
	want := stats.User{ID: 1, Username: "a", Stats: stats.Stats{KillCount: 5, DeathCount: 2}}
	if users[0] != want {
		t.Fatalf("users[0] = %+v, want %+v", users[0], want)
	}
}

func TestListUsersEmptyDataIsEmptySlice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	users, err := newTestClient(t, srv.URL).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("users = %#v, want empty non-nil slice", users)
	}
}

func TestListTopUsersSendsTopQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get(usersv1.QueryTop); got != "3" {
			t.Errorf("top = %q, want %q", got, "3")
		}
		_, _ = w.Write([]byte(`{"data":[{"id":7,"username":"x","stats":{"kill_count":9,"death_count":0}}]}`))
	}))
	t.Cleanup(srv.Close)

	users, err := newTestClient(t, srv.URL).ListTopUsers(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListTopUsers: %v", err)
	}
	if len(users) != 1 || users[0].ID != 7 {
		t.Fatalf("users = %+v, want single user 7", users)
	}
}

func TestListTopUsersRejectsNonPositiveCount(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL)
	for _, n := range []int{0, -1} {
		_, err := client.ListTopUsers(context.Background(), n)
		if got := apperrors.CodeOf(err); got != apperrors.CodeTopCountInvalid {
			t.Fatalf("ListTopUsers(%d) code = %v, want %v", n, got, apperrors.CodeTopCountInvalid)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("server calls = %d, want 0", calls.Load())
	}
}

func TestListUsersErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    apperrors.Code
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: apperrors.CodeRemoteStatus,
		},
		{
			name: "not found status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			want: apperrors.CodeRemoteStatus,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[{"id":"oops"`))
			},
			want: apperrors.CodeRemoteDecode,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tc.handler)
			t.Cleanup(srv.Close)

			_, err := newTestClient(t, srv.URL).ListUsers(context.Background())
			if got := apperrors.CodeOf(err); got != tc.want {
				t.Fatalf("code = %v, want %v (err=%v)", got, tc.want, err)
			}
		})
	}
}

func TestListUsersUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).ListUsers(context.Background())
	if got := apperrors.CodeOf(err); got != apperrors.CodeRemoteUnavailable {
		t.Fatalf("code = %v, want %v", got, apperrors.CodeRemoteUnavailable)
	}
}

func TestListUsersHonorsTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	client, err := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.ListUsers(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestUpdateStatSendsPut(t *testing.T) {
	t.Parallel()

	var got usersv1.UpdateStatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/users/42" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/users/42")
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		// Any 2xx is success, whatever the body.
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	if err := newTestClient(t, srv.URL).UpdateStat(context.Background(), 42, stats.DeathCount, 7); err != nil {
		t.Fatalf("UpdateStat: %v", err)
	}
	want := usersv1.UpdateStatRequest{Stat: stats.DeathCount, Value: 7}
	if got != want {
		t.Fatalf("body = %+v, want %+v", got, want)
	}
}

func TestUpdateStatNon2xxIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	err := newTestClient(t, srv.URL).UpdateStat(context.Background(), 1, stats.KillCount, 3)
	if got := apperrors.CodeOf(err); got != apperrors.CodeRemoteStatus {
		t.Fatalf("code = %v, want %v", got, apperrors.CodeRemoteStatus)
	}
}

func TestUpdateStatValidatesLocally(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)
	client := newTestClient(t, srv.URL)

	tests := []struct {
		userID int64
		kind   stats.Kind
		value  int
		want   apperrors.Code
	}{
		{userID: 0, kind: stats.KillCount, value: 1, want: apperrors.CodeUserIDInvalid},
		{userID: 1, kind: stats.Kind("score"), value: 1, want: apperrors.CodeStatKindInvalid},
		{userID: 1, kind: stats.KillCount, value: -1, want: apperrors.CodeStatValueInvalid},
	}
	for _, tc := range tests {
		err := client.UpdateStat(context.Background(), tc.userID, tc.kind, tc.value)
		if got := apperrors.CodeOf(err); got != tc.want {
			t.Fatalf("UpdateStat(%d, %q, %d) code = %v, want %v", tc.userID, tc.kind, tc.value, got, tc.want)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("server calls = %d, want 0", calls.Load())
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(baseURL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}
