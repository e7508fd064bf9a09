// Package templates renders the leaderboard dashboard as templ components.
//
// There is exactly one view definition: Page wraps Board, and Board is also
// served alone as the swap target for refetches and commits.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"fmt"
	"strings"

	"github.com/louisbranch/statboard/internal/platform/i18n"
	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
	"github.com/louisbranch/statboard/internal/services/leaderboard/routepath"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BoardID is the DOM id of the swappable board fragment.
const BoardID = "leaderboard"

// Asset paths served from the embedded static directory.
const (
	StylesheetPath = routepath.StaticPrefix + "app.css"
	ScriptPath     = routepath.StaticPrefix + "board.js"
)

// Localizer provides translated strings for components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or the key itself.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 && strings.Contains(keyString, "%") {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// PageData is everything a leaderboard render needs.
type PageData struct {
	Lang language.Tag
	Loc  Localizer
	View board.View
}

func pageLang(data PageData) string {
	if data.Lang == language.Und {
		return i18n.DefaultTag().String()
	}
	return data.Lang.String()
}

func languageURL(tag language.Tag) string {
	return routepath.Root + "?" + i18n.LangParam + "=" + tag.String()
}
