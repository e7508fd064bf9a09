// Package usersv1 is the wire contract of the remote users API: the paths,
// query parameters and JSON bodies shared by the leaderboard client and the
// userstats server.
package usersv1

import (
	"strconv"

	"github.com/louisbranch/statboard/internal/stats"
)

const (
	// PathUsers lists users (GET) and prefixes single-user updates (PUT).
	PathUsers = "/users"
	// PathUserPattern is the ServeMux pattern for one user.
	PathUserPattern = "/users/{id}"
	// QueryTop bounds a list request to the n highest-ranked users.
	QueryTop = "top"
	// HealthService is the gRPC health service name the users API reports.
	HealthService = "userstats.Users"
)

// UserPath returns the path of one user resource.
func UserPath(userID int64) string {
	return PathUsers + "/" + strconv.FormatInt(userID, 10)
}

// ListUsersResponse is the body of GET /users and GET /users?top=n.
type ListUsersResponse struct {
	Data []stats.User `json:"data"`
}

// UpdateStatRequest is the body of PUT /users/{id}.
type UpdateStatRequest struct {
	Stat  stats.Kind `json:"stat"`
	Value int        `json:"value"`
}

// ErrorResponse is the body the userstats server sends with non-2xx replies.
// Clients must not depend on it.
type ErrorResponse struct {
	Error string `json:"error"`
}
