package templates

import (
	"github.com/louisbranch/statboard/internal/platform/i18n"
	"github.com/louisbranch/statboard/internal/services/leaderboard/board"
	"github.com/louisbranch/statboard/internal/stats"
)

func cellLabel(cell board.Cell, loc Localizer) string {
	if cell.Kind == stats.DeathCount {
		return T(loc, i18n.KeyColumnDeaths)
	}
	return T(loc, i18n.KeyColumnKills)
}
