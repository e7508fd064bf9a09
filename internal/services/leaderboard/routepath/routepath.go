// Package routepath defines the leaderboard dashboard's URL paths.
package routepath

import (
	"net/url"
	"strconv"

	"github.com/louisbranch/statboard/internal/stats"
)

const (
	Root         = "/"
	StaticPrefix = "/static/"
	Health       = "/healthz"
)

const (
	Leaderboard = "/leaderboard"
)

// ServeMux patterns for cell actions.
const (
	CellEditPattern   = "/cells/{userID}/{stat}/edit"
	CellCommitPattern = "/cells/{userID}/{stat}/commit"
)

// Path values bound by the cell patterns.
const (
	ParamUserID = "userID"
	ParamStat   = "stat"
)

func Cell(userID int64, kind stats.Kind) string {
	return "/cells/" + strconv.FormatInt(userID, 10) + "/" + url.PathEscape(string(kind))
}

func CellEdit(userID int64, kind stats.Kind) string {
	return Cell(userID, kind) + "/edit"
}

func CellCommit(userID int64, kind stats.Kind) string {
	return Cell(userID, kind) + "/commit"
}
