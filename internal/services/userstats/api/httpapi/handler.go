// Package httpapi serves the users API over HTTP: list users, list the top
// users and update one stat of one user.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/statboard/internal/api/usersv1"
	apperrors "github.com/louisbranch/statboard/internal/platform/errors"
	"github.com/louisbranch/statboard/internal/platform/httpx"
	"github.com/louisbranch/statboard/internal/services/userstats/storage"
	"github.com/louisbranch/statboard/internal/stats"
)

const maxBodyBytes = 1 << 20

// Handler serves the users API routes.
type Handler struct {
	store storage.UserStore
	logf  func(format string, args ...any)
}

// NewHandler builds a users API handler over store.
func NewHandler(store storage.UserStore) *Handler {
	return &Handler{store: store, logf: log.Printf}
}

// Register mounts the users API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(http.MethodGet+" "+usersv1.PathUsers, h.listUsers)
	mux.HandleFunc(http.MethodPut+" "+usersv1.PathUserPattern, h.updateStat)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	rawTop, hasTop := r.URL.Query()[usersv1.QueryTop]

	var (
		users []stats.User
		err   error
	)
	if hasTop {
		n, parseErr := parseTop(rawTop)
		if parseErr != nil {
			h.writeError(w, r, parseErr)
			return
		}
		users, err = h.store.ListTopUsers(ctx, n)
	} else {
		users, err = h.store.ListUsers(ctx)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if users == nil {
		users = []stats.User{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, usersv1.ListUsersResponse{Data: users})
}

func (h *Handler) updateStat(w http.ResponseWriter, r *http.Request) {
	userID, err := stats.ParseUserID(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req usersv1.UpdateStatRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	kind, err := stats.ParseKind(string(req.Stat))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := stats.ValidateValue(req.Value); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.store.UpdateStat(httpx.RequestContext(r), userID, kind, req.Value); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperrors.WrapWithMetadata(
				apperrors.CodeUserNotFound,
				fmt.Sprintf("user %d not found", userID),
				map[string]string{"user_id": strconv.FormatInt(userID, 10)},
				err,
			)
		}
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logf("users api request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		_ = httpx.WriteJSONError(w, status, http.StatusText(status))
		return
	}
	httpx.WriteError(w, err)
}

func parseTop(values []string) (int, error) {
	raw := ""
	if len(values) > 0 {
		raw = strings.TrimSpace(values[0])
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.WithMetadata(
			apperrors.CodeTopCountInvalid,
			fmt.Sprintf("top must be a positive integer, got %q", raw),
			map[string]string{"top": raw},
		)
	}
	return n, nil
}
