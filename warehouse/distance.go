package warehouse

import "sort"

// DistanceEntry pairs a pending-exit item with its Manhattan distance to
// the I/O cell.
type DistanceEntry struct {
	Item     int
	Distance int
}

// DistanceList is an ascending-sorted, side-partitioned list of pending
// exit items.
type DistanceList []DistanceEntry

// Items returns just the catalogue numbers, preserving order.
func (entries DistanceList) Items() []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Item
	}
	return out
}

// DistanceIndex holds the two side-partitioned, ascending-sorted lists of
// still-pending exit items (spec §4.2). It is a derived cache: rebuilt in
// full every tick from ground truth rather than incrementally patched, to
// avoid desync bugs (spec §9 Design notes) — the grid is only 9x15, so an
// O(R*C) scan per tick is immaterial.
type DistanceIndex struct {
	Left  DistanceList
	Right DistanceList
}

// Recompute rebuilds both lists from the set of items still pending exit.
// Column convention (spec §4.2, pinned in SPEC_FULL.md §3): c<7 goes to
// Left, c>=7 goes to Right — independent of the item's own Side field,
// which instead marks c==7 as CENTER.
func (d *DistanceIndex) Recompute(g *Grid, itemsToExit map[int]int) {
	d.Left = d.Left[:0]
	d.Right = d.Right[:0]

	// Go map iteration order is randomized; collect and sort the keys
	// first so the two lists below are built in deterministic order
	// before the distance sort breaks ties by insertion order (spec P6:
	// same seed + same inputs must produce byte-identical output).
	items := make([]int, 0, len(itemsToExit))
	for item := range itemsToExit {
		items = append(items, item)
	}
	sort.Ints(items)

	for _, item := range items {
		pos, ok := g.FindItem(item)
		if !ok {
			continue
		}
		entry := DistanceEntry{Item: item, Distance: pos.Manhattan()}
		if pos.C >= IOCol {
			d.Right = append(d.Right, entry)
		} else {
			d.Left = append(d.Left, entry)
		}
	}

	sort.SliceStable(d.Left, func(i, j int) bool { return d.Left[i].Distance < d.Left[j].Distance })
	sort.SliceStable(d.Right, func(i, j int) bool { return d.Right[i].Distance < d.Right[j].Distance })
}
