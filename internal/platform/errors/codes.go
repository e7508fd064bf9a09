// Package errors provides structured error handling for statboard services.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Input errors
	CodeStatKindInvalid  Code = "STAT_KIND_INVALID"
	CodeStatValueInvalid Code = "STAT_VALUE_INVALID"
	CodeUserIDInvalid    Code = "USER_ID_INVALID"
	CodeTopCountInvalid  Code = "TOP_COUNT_INVALID"

	// Storage errors
	CodeUserNotFound Code = "USER_NOT_FOUND"

	// Remote users API errors
	CodeRemoteUnavailable Code = "REMOTE_UNAVAILABLE"
	CodeRemoteStatus      Code = "REMOTE_STATUS"
	CodeRemoteDecode      Code = "REMOTE_DECODE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeStatKindInvalid,
		CodeStatValueInvalid,
		CodeUserIDInvalid,
		CodeTopCountInvalid:
		return http.StatusBadRequest

	case CodeUserNotFound:
		return http.StatusNotFound

	// The dashboard's upstream misbehaved.
	case CodeRemoteUnavailable,
		CodeRemoteStatus,
		CodeRemoteDecode:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
