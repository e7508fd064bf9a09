package leaderboard

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/statboard/internal/platform/httpx"
	"github.com/louisbranch/statboard/internal/platform/i18n"
	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
	"github.com/louisbranch/statboard/internal/services/leaderboard/routepath"
	"github.com/louisbranch/statboard/internal/services/leaderboard/session"
	"github.com/louisbranch/statboard/internal/services/leaderboard/templates"
	"github.com/louisbranch/statboard/internal/stats"
)

type handlers struct {
	sessions *session.Registry
	logf     func(format string, args ...any)
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// page mounts the viewer's board and renders the full document.
func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	b, _ := h.sessions.Resolve(w, r)
	b.Mount(httpx.RequestContext(r))
	data := h.pageData(w, r, b)
	if httpx.IsHTMXRequest(r) {
		h.render(w, r, templates.Board(data))
		return
	}
	h.render(w, r, templates.Page(data))
}

// fragment refetches both lists and renders the board alone.
func (h *handlers) fragment(w http.ResponseWriter, r *http.Request) {
	b, _ := h.sessions.Resolve(w, r)
	b.Refresh(httpx.RequestContext(r))
	h.render(w, r, templates.Board(h.pageData(w, r, b)))
}

// edit buffers one keystroke.
func (h *handlers) edit(w http.ResponseWriter, r *http.Request) {
	userID, kind, err := cellFromRequest(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	value, err := stats.ParseValue(r.FormValue("value"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	b, created := h.sessions.Resolve(w, r)
	if created {
		b.Mount(httpx.RequestContext(r))
	}
	if err := b.Edit(userID, kind, value); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// commit submits a cell on blur and re-renders the board whatever the
// outcome; failures are already logged by the board.
func (h *handlers) commit(w http.ResponseWriter, r *http.Request) {
	userID, kind, err := cellFromRequest(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	b, created := h.sessions.Resolve(w, r)
	ctx := httpx.RequestContext(r)
	if created {
		b.Mount(ctx)
	}
	b.Blur(ctx, userID, kind)
	h.render(w, r, templates.Board(h.pageData(w, r, b)))
}

func (h *handlers) pageData(w http.ResponseWriter, r *http.Request, b *board.Board) templates.PageData {
	tag, fromQuery := i18n.ResolveTag(r)
	if fromQuery {
		i18n.SetLanguageCookie(w, tag)
	}
	return templates.PageData{
		Lang: tag,
		Loc:  i18n.Printer(tag),
		View: b.View(),
	}
}

func (h *handlers) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	templ.Handler(component, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		h.logf("render leaderboard failed: path=%s err=%v", r.URL.Path, err)
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

func cellFromRequest(r *http.Request) (int64, stats.Kind, error) {
	userID, err := stats.ParseUserID(r.PathValue(routepath.ParamUserID))
	if err != nil {
		return 0, "", err
	}
	kind, err := stats.ParseKind(r.PathValue(routepath.ParamStat))
	if err != nil {
		return 0, "", err
	}
	return userID, kind, nil
}
