package warehouse

import "testing"

func sampleMatrix() [][]int {
	m := make([][]int, Rows)
	for r := range m {
		m[r] = make([]int, Cols)
		for c := range m[r] {
			m[r][c] = (r+1)*100 + c + 1
		}
	}
	m[0][0] = 0
	m[0][14] = 0
	m[8][0] = 0
	m[8][14] = 0
	m[4][7] = 0
	m[0][7] = 1
	return m
}

func TestBuildGrid_Valid(t *testing.T) {
	m := sampleMatrix()
	g, robotSide, err := BuildGrid(m, []int{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(robotSide) != RobotCount {
		t.Fatalf("expected %d robot assignments, got %d", RobotCount, len(robotSide))
	}
	pos, ok := g.FindItem(1)
	if !ok || pos != (Pos{0, 7}) {
		t.Errorf("expected item 1 at (0,7), got %v ok=%v", pos, ok)
	}
}

func TestBuildGrid_WrongEscortCount(t *testing.T) {
	m := sampleMatrix()
	m[4][7] = 42 // remove one of the five escorts
	if _, _, err := BuildGrid(m, nil); err == nil {
		t.Fatal("expected an error for wrong escort count")
	}
}

func TestBuildGrid_DuplicateItem(t *testing.T) {
	m := sampleMatrix()
	m[1][1] = m[2][2]
	if _, _, err := BuildGrid(m, nil); err == nil {
		t.Fatal("expected an error for duplicate item numbers")
	}
}

func TestBuildGrid_MissingExitItem(t *testing.T) {
	m := sampleMatrix()
	if _, _, err := BuildGrid(m, []int{999999}); err == nil {
		t.Fatal("expected an error for an exit item absent from the grid")
	}
}

func TestGrid_Neighbours_ClampsAtEdges(t *testing.T) {
	g := NewGrid()
	n := g.Neighbours(Pos{0, 0})
	for _, p := range n {
		if !InBounds(p) {
			t.Errorf("neighbour %v out of bounds", p)
		}
	}
}

func TestGrid_WhichRobotEscort(t *testing.T) {
	g := NewGrid()
	g.Set(Pos{2, 2}, Cell{Kind: EscortCell, Escort: Escort{RobotID: 3}, RobotID: 3})
	if got := g.WhichRobotEscort(Pos{2, 2}); got != 3 {
		t.Errorf("expected robot 3, got %d", got)
	}
	if g.HasExitEscortForRobot(Pos{2, 2}, 1) {
		t.Error("expected escort at (2,2) to not belong to robot 1")
	}
}
