// Package stats defines the user records shown on the leaderboard and the
// kill/death statistics attached to them.
package stats

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/statboard/internal/platform/errors"
)

// Kind selects which statistic field is read or written.
type Kind string

const (
	KillCount  Kind = "kill_count"
	DeathCount Kind = "death_count"
)

// Kinds lists every stat kind in display order.
func Kinds() []Kind {
	return []Kind{KillCount, DeathCount}
}

// ParseKind converts a wire value into a Kind.
func ParseKind(value string) (Kind, error) {
	switch kind := Kind(strings.TrimSpace(value)); kind {
	case KillCount, DeathCount:
		return kind, nil
	default:
		return "", apperrors.WithMetadata(
			apperrors.CodeStatKindInvalid,
			fmt.Sprintf("unknown stat %q", value),
			map[string]string{"stat": value},
		)
	}
}

// Valid reports whether k is a known stat kind.
func (k Kind) Valid() bool {
	return k == KillCount || k == DeathCount
}

// Stats holds the per-user counters. Both are non-negative.
type Stats struct {
	KillCount  int `json:"kill_count"`
	DeathCount int `json:"death_count"`
}

// Get returns the counter selected by kind. Unknown kinds read as zero.
func (s Stats) Get(kind Kind) int {
	switch kind {
	case KillCount:
		return s.KillCount
	case DeathCount:
		return s.DeathCount
	default:
		return 0
	}
}

// With returns a copy of s with the counter selected by kind set to value.
func (s Stats) With(kind Kind, value int) Stats {
	switch kind {
	case KillCount:
		s.KillCount = value
	case DeathCount:
		s.DeathCount = value
	}
	return s
}

// Score is the leaderboard points value: kills minus deaths.
func (s Stats) Score() int {
	return s.KillCount - s.DeathCount
}

// ValidateValue rejects counts a stat can never hold.
func ValidateValue(value int) error {
	if value < 0 {
		return apperrors.WithMetadata(
			apperrors.CodeStatValueInvalid,
			fmt.Sprintf("stat value must be non-negative, got %d", value),
			map[string]string{"value": strconv.Itoa(value)},
		)
	}
	return nil
}

// ParseValue parses a typed counter, as entered in an edit cell.
func ParseValue(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.WrapWithMetadata(
			apperrors.CodeStatValueInvalid,
			"stat value must be an integer",
			map[string]string{"value": raw},
			err,
		)
	}
	if err := ValidateValue(value); err != nil {
		return 0, err
	}
	return value, nil
}

// User is one leaderboard entry.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Stats    Stats  `json:"stats"`
}

// ParseUserID parses a positive user id from a path segment.
func ParseUserID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMetadata(
			apperrors.CodeUserIDInvalid,
			fmt.Sprintf("invalid user id %q", raw),
			map[string]string{"user_id": raw},
		)
	}
	return id, nil
}
