package warehouse

import (
	"fmt"
	"strings"
)

// Render draws the current grid as a fixed-width ASCII view for
// debugging: escort cells show the owning robot's id, item cells show
// their catalogue number (or "." once exited), purely observational and
// side-effect free.
func (s *Scheduler) Render() string {
	var b strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			cell := s.Grid.cells[r][c]
			switch {
			case cell.Kind == EscortCell:
				fmt.Fprintf(&b, "[R%d]", cell.Escort.RobotID)
			case cell.Item.Number == ExitSentinel:
				fmt.Fprintf(&b, "%4s", ".")
			default:
				fmt.Fprintf(&b, "%4d", cell.Item.Number)
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "tick=%d pending=%d exited=%d\n", s.tick, len(s.itemsToExit), s.Exits.Len())
	return b.String()
}

// ClearScreen emits the ANSI escape sequence used to redraw the grid in
// place rather than scrolling the terminal.
func ClearScreen() string {
	return "\033[H\033[2J"
}
