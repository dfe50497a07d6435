package warehouse

import "testing"

func TestRowSteps_SameRow(t *testing.T) {
	steps := RowSteps(Pos{3, 5}, 3)
	if steps != nil {
		t.Errorf("expected nil steps for no movement, got %v", steps)
	}
}

func TestRowSteps_FirstMoveIsTwoSubsteps(t *testing.T) {
	steps := RowSteps(Pos{2, 4}, 3)
	// first cell: 2 substeps, plus the final settle.
	if len(steps) != 2+1 {
		t.Fatalf("expected 2 substeps plus a settle for a single-cell first move, got %d: %v", len(steps), steps)
	}
	if !steps[1].Carries {
		t.Errorf("expected the second substep to carry, got %+v", steps[1])
	}
}

func TestRowSteps_MultiCellDownward(t *testing.T) {
	steps := RowSteps(Pos{0, 4}, 3)
	// first cell: 2 substeps, two more cells: 3 substeps each, plus a final settle.
	want := 2 + 3 + 3 + 1
	if len(steps) != want {
		t.Fatalf("expected %d substeps, got %d: %v", want, len(steps), steps)
	}
	last := steps[len(steps)-1]
	if last.To != (Pos{3, 4}) {
		t.Errorf("expected final settle step to land on row 3, got %+v", last)
	}
}

func TestRowSteps_Upward(t *testing.T) {
	steps := RowSteps(Pos{5, 2}, 2)
	// first cell: 2 substeps, two more cells: 3 substeps each, plus a final settle.
	want := 2 + 3 + 3 + 1
	if len(steps) != want {
		t.Fatalf("expected %d substeps, got %d: %v", want, len(steps), steps)
	}
	if steps[0].To != (Pos{4, 2}) {
		t.Errorf("expected first substep to move up one row, got %+v", steps[0])
	}
}

func TestColumnSteps_SameColumn(t *testing.T) {
	if steps := ColumnSteps(Pos{1, 9}, 9); steps != nil {
		t.Errorf("expected nil steps for no movement, got %v", steps)
	}
}

func TestColumnSteps_Rightward(t *testing.T) {
	steps := ColumnSteps(Pos{1, 0}, 2)
	want := 2 + 3 + 1
	if len(steps) != want {
		t.Fatalf("expected %d substeps, got %d: %v", want, len(steps), steps)
	}
	for _, s := range steps {
		if s.From.R != 1 || s.To.R != 1 {
			t.Errorf("expected column move to hold row fixed, got %+v", s)
		}
	}
}
