package board

import (
	"fmt"
	"strings"

	"github.com/louisbranch/statboard/internal/stats"
)

// CellKey identifies one editable stat cell.
type CellKey struct {
	UserID int64
	Kind   stats.Kind
}

func (k CellKey) String() string {
	return fmt.Sprintf("%d/%s", k.UserID, k.Kind)
}

// EditBuffer holds typed values the server has not confirmed yet. Entries
// only override what is displayed.
type EditBuffer map[CellKey]int

// Get returns the buffered value for key.
func (b EditBuffer) Get(key CellKey) (int, bool) {
	value, ok := b[key]
	return value, ok
}

func (b EditBuffer) clone() EditBuffer {
	out := make(EditBuffer, len(b))
	for key, value := range b {
		out[key] = value
	}
	return out
}

// apply overlays buffered values for userID onto s.
func (b EditBuffer) apply(userID int64, s stats.Stats) stats.Stats {
	for _, kind := range stats.Kinds() {
		if value, ok := b[CellKey{UserID: userID, Kind: kind}]; ok {
			s = s.With(kind, value)
		}
	}
	return s
}

// CellState tracks one cell through the edit/submit cycle.
type CellState int

const (
	// CellSynced shows the server value, or a retained buffer entry.
	CellSynced CellState = iota
	// CellEditing has a buffered value that was not submitted yet.
	CellEditing
	// CellSubmitting has an update in flight.
	CellSubmitting
	// CellStuck failed to submit; the typed value stays on screen.
	CellStuck
)

func (s CellState) String() string {
	switch s {
	case CellSynced:
		return "synced"
	case CellEditing:
		return "editing"
	case CellSubmitting:
		return "submitting"
	case CellStuck:
		return "stuck-unconfirmed"
	default:
		return fmt.Sprintf("CellState(%d)", int(s))
	}
}

// BufferPolicy decides what happens to a buffer entry after its value was
// confirmed by the server.
type BufferPolicy int

const (
	// RetireOnSuccess drops the entry after a successful submit and refetch,
	// unless a newer keystroke replaced the submitted value meanwhile.
	RetireOnSuccess BufferPolicy = iota
	// RetainUntilOverwritten keeps the entry until the next keystroke on the
	// same cell.
	RetainUntilOverwritten
)

func (p BufferPolicy) String() string {
	switch p {
	case RetireOnSuccess:
		return "retire"
	case RetainUntilOverwritten:
		return "retain"
	default:
		return fmt.Sprintf("BufferPolicy(%d)", int(p))
	}
}

// ParseBufferPolicy reads the configured policy name.
func ParseBufferPolicy(value string) (BufferPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "retire":
		return RetireOnSuccess, nil
	case "retain":
		return RetainUntilOverwritten, nil
	default:
		return 0, fmt.Errorf("unknown buffer policy %q (want retire or retain)", value)
	}
}
