package warehouse

import "fmt"

// BuildGrid turns the raw 9x15 integer matrix from the I/O boundary (0 =
// escort slot, positive = item catalogue number) into a populated Grid,
// assigning robots to escort slots in scan order per the fixed side
// pattern (spec §3, §6). itemsToExit is the set of catalogue numbers that
// must leave the warehouse.
//
// Returns *SimError wrapping ErrInvalidInput if the matrix shape is wrong,
// the escort count isn't exactly RobotCount, a catalogue number repeats,
// or a requested exit item is absent from the grid.
func BuildGrid(matrix [][]int, itemsToExit []int) (*Grid, map[int]Side, error) {
	if len(matrix) != Rows {
		return nil, nil, newSimError(ErrInvalidInput, 0, 0, nil, fmt.Errorf("expected %d rows, got %d", Rows, len(matrix)))
	}
	for i, row := range matrix {
		if len(row) != Cols {
			return nil, nil, newSimError(ErrInvalidInput, 0, 0, nil, fmt.Errorf("row %d: expected %d cols, got %d", i, Cols, len(row)))
		}
	}

	exitSet := make(map[int]bool, len(itemsToExit))
	for _, n := range itemsToExit {
		if exitSet[n] {
			return nil, nil, newSimError(ErrInvalidInput, 0, 0, nil, fmt.Errorf("duplicate exit item %d", n))
		}
		exitSet[n] = true
	}

	g := NewGrid()
	robotSide := make(map[int]Side, RobotCount)
	seenItems := make(map[int]bool)

	robotID := 0
	escortIdx := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			n := matrix[r][c]
			p := Pos{r, c}
			if n == 0 {
				if escortIdx >= RobotCount {
					return nil, nil, newSimError(ErrInvalidInput, 0, 0, []Pos{p}, fmt.Errorf("more than %d escort cells", RobotCount))
				}
				robotID++
				side := AssignedSidePattern[escortIdx]
				robotSide[robotID] = side
				escortIdx++
				g.Set(p, Cell{Kind: EscortCell, Escort: Escort{RobotID: robotID}, RobotID: robotID})
				continue
			}

			if seenItems[n] {
				return nil, nil, newSimError(ErrInvalidInput, 0, 0, []Pos{p}, fmt.Errorf("duplicate item number %d", n))
			}
			seenItems[n] = true

			side := CENTER
			if c < IOCol {
				side = LEFT
			} else if c > IOCol {
				side = RIGHT
			}
			g.Set(p, Cell{Kind: ItemCell, Item: Item{Number: n, ToExit: exitSet[n], Side: side}})
		}
	}

	if escortIdx != RobotCount {
		return nil, nil, newSimError(ErrInvalidInput, 0, 0, nil, fmt.Errorf("expected exactly %d escort cells, got %d", RobotCount, escortIdx))
	}
	for n := range exitSet {
		if !seenItems[n] {
			return nil, nil, newSimError(ErrInvalidInput, 0, 0, nil, fmt.Errorf("exit item %d not present in grid", n))
		}
	}

	return g, robotSide, nil
}
