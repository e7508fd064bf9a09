package board

import (
	"strconv"

	"github.com/louisbranch/statboard/internal/stats"
)

// ChartColors are the bar fills, cycled by rank.
var ChartColors = []string{
	"rgba(75, 192, 192, 0.6)",
	"rgba(255, 99, 132, 0.6)",
	"rgba(255, 206, 86, 0.6)",
}

// View is an immutable snapshot of a board, ready to render.
type View struct {
	Rows  []Row
	Chart []Bar
	// TopCount is how many users the chart asks for.
	TopCount int
}

// Row is one user in the table.
type Row struct {
	UserID   int64
	Username string
	Cells    []Cell
	// Points is computed from the server values, not the buffered ones.
	Points int
}

// Cell is one editable stat.
type Cell struct {
	Kind     stats.Kind
	Value    int
	Buffered bool
	State    CellState
}

// Bar is one chart entry.
type Bar struct {
	Rank     int
	Username string
	Label    string
	Value    int
	Color    string
}

// View snapshots the board for rendering.
func (b *Board) View() View {
	b.mu.Lock()
	users := append([]stats.User(nil), b.users...)
	topUsers := append([]stats.User(nil), b.topUsers...)
	buffer := b.buffer.clone()
	states := make(map[CellKey]CellState, len(b.states))
	for key, state := range b.states {
		states[key] = state
	}
	b.mu.Unlock()

	view := buildView(users, topUsers, buffer, states)
	view.TopCount = b.topCount
	return view
}

func buildView(users, topUsers []stats.User, buffer EditBuffer, states map[CellKey]CellState) View {
	view := View{
		Rows:  make([]Row, 0, len(users)),
		Chart: make([]Bar, 0, len(topUsers)),
	}
	for _, user := range users {
		row := Row{
			UserID:   user.ID,
			Username: user.Username,
			Cells:    make([]Cell, 0, len(stats.Kinds())),
			Points:   user.Stats.Score(),
		}
		for _, kind := range stats.Kinds() {
			key := CellKey{UserID: user.ID, Kind: kind}
			cell := Cell{Kind: kind, Value: user.Stats.Get(kind), State: states[key]}
			if value, ok := buffer.Get(key); ok {
				cell.Value = value
				cell.Buffered = true
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}
	for i, user := range topUsers {
		rank := i + 1
		view.Chart = append(view.Chart, Bar{
			Rank:     rank,
			Username: user.Username,
			Label:    strconv.Itoa(rank) + " " + user.Username,
			Value:    buffer.apply(user.ID, user.Stats).Score(),
			Color:    ChartColors[i%len(ChartColors)],
		})
	}
	return view
}
