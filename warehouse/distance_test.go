package warehouse

import "testing"

func TestDistanceIndex_Recompute_PartitionsBySide(t *testing.T) {
	g := NewGrid()
	g.Set(Pos{0, 2}, Cell{Kind: ItemCell, Item: Item{Number: 1}})
	g.Set(Pos{0, 12}, Cell{Kind: ItemCell, Item: Item{Number: 2}})
	g.Set(Pos{0, IOCol}, Cell{Kind: ItemCell, Item: Item{Number: 3}})

	var idx DistanceIndex
	idx.Recompute(g, map[int]int{1: 0, 2: 0, 3: 0})

	if len(idx.Left) != 1 || idx.Left[0].Item != 1 {
		t.Errorf("expected item 1 on the left, got %v", idx.Left)
	}
	// c == IOCol is the pinned boundary case: it belongs to the right list.
	if len(idx.Right) != 2 {
		t.Fatalf("expected 2 items on the right (including the c==IOCol item), got %v", idx.Right)
	}
}

func TestDistanceIndex_Recompute_SortedAscending(t *testing.T) {
	g := NewGrid()
	g.Set(Pos{5, 10}, Cell{Kind: ItemCell, Item: Item{Number: 1}})
	g.Set(Pos{0, 8}, Cell{Kind: ItemCell, Item: Item{Number: 2}})

	var idx DistanceIndex
	idx.Recompute(g, map[int]int{1: 0, 2: 0})

	if len(idx.Right) != 2 {
		t.Fatalf("expected both items on the right, got %v", idx.Right)
	}
	if idx.Right[0].Item != 2 {
		t.Errorf("expected item 2 (closer to I/O) first, got %v", idx.Right)
	}
}

func TestDistanceIndex_Recompute_IgnoresExitedItems(t *testing.T) {
	g := NewGrid()
	var idx DistanceIndex
	idx.Recompute(g, map[int]int{42: 0})
	if len(idx.Left)+len(idx.Right) != 0 {
		t.Errorf("expected no entries for an item absent from the grid, got left=%v right=%v", idx.Left, idx.Right)
	}
}
