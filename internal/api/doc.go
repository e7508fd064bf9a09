// Package api holds the wire contracts shared by statboard processes.
//
// # Users API
//
// The usersv1 subpackage defines the HTTP contract of the remote users API:
// list every user, list the n highest-ranked users and update one stat of one
// user. The leaderboard dashboard consumes it through its usersapi client and
// the userstats service implements it over SQLite.
//
// The contract has no authentication, pagination or error schema. Clients
// treat any 2xx answer to an update as success and ignore its body.
package api
