package warehouse

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoadGrid_DecodesMatrix(t *testing.T) {
	r := strings.NewReader(`{"matrix":[[0,1],[2,0]]}`)
	matrix, err := LoadGrid(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matrix) != 2 || matrix[0][1] != 1 {
		t.Errorf("unexpected matrix: %v", matrix)
	}
}

func TestLoadItemsToExit(t *testing.T) {
	r := strings.NewReader(`{"items_to_exit":[3,7,9]}`)
	items, err := LoadItemsToExit(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 || items[1] != 7 {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestDumpMoveLog(t *testing.T) {
	var log MoveLog
	log.Append(1, Move{From: Pos{0, 0}, To: Pos{0, 1}, Carries: true})

	var buf bytes.Buffer
	if err := DumpMoveLog(&buf, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "move_log") {
		t.Errorf("expected move_log key in output, got %s", buf.String())
	}
}

func TestDumpExitLog_SortsByTick(t *testing.T) {
	var log ExitLog
	log.Append(5, 10)
	log.Append(2, 3)

	var buf bytes.Buffer
	if err := DumpExitLog(&buf, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Index(out, `"Item": 2`) > strings.Index(out, `"Item": 5`) {
		t.Errorf("expected item 2 (earlier tick) to appear before item 5, got %s", out)
	}
}
