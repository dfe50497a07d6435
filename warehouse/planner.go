package warehouse

import "sort"

// Planner: the route-building logic layered on top of the primitive row/
// column step generators (spec §4.4-§4.6). A robot's full route to an
// item is a Manhattan journey (row-then-column or column-then-row, axis
// order chosen at random per journey) ending in a CHECK sentinel; once
// adjacent, the three-step manoeuvre pulls the item into the escort,
// and the five-step manoeuvre carries it home to the I/O cell.

// manhattanPath builds the full row+column primitive sequence from pos to
// target. Axis order follows spec §4.4: sharing a row runs columns then
// rows, sharing a column runs rows then columns, and anything else (or a
// parking route, which always randomizes) flips a coin.
func (s *Scheduler) manhattanPath(pos, target Pos) []Step {
	rowFirst := s.rng.Bool()
	switch {
	case pos.R == target.R:
		rowFirst = false
	case pos.C == target.C:
		rowFirst = true
	}

	if rowFirst {
		rowSteps := RowSteps(pos, target.R)
		mid := Pos{target.R, pos.C}
		colSteps := ColumnSteps(mid, target.C)
		return append(rowSteps, colSteps...)
	}
	colSteps := ColumnSteps(pos, target.C)
	mid := Pos{pos.R, target.C}
	rowSteps := RowSteps(mid, target.R)
	return append(colSteps, rowSteps...)
}

// approachCell picks the fetch position for item (spec §4.4): one cell
// below it for any row below the top, or the inward neighbour on row 0
// (approaching from the left, with the two top corners as fixed special
// cases).
func approachCell(item Pos) Pos {
	if item.R == 0 {
		switch item.C {
		case 0:
			return Pos{0, 1}
		case Cols - 1:
			return Pos{0, Cols - 2}
		default:
			return Pos{0, item.C - 1}
		}
	}
	return Pos{item.R - 1, item.C}
}

// manhattanJourney queues the route from robotID's current position to
// item's neighbourhood (or, when parking is true, straight to parkAt),
// terminated by a CHECK sentinel for a real fetch (spec §4.4). setFetch
// marks the robot as pursuing item once the route is queued; parking
// journeys never touch item assignment.
func (s *Scheduler) manhattanJourney(id, item int, setFetch, parking bool, parkAt Pos) {
	r := s.robot(id)
	pos := s.loc(id)

	var target Pos
	if parking {
		target = parkAt
	} else {
		itemPos, ok := s.Grid.FindItem(item)
		if !ok {
			return
		}
		target = approachCell(itemPos)
	}

	steps := s.manhattanPath(pos, target)
	if !parking {
		steps = append(steps, CheckStep())
	}
	r.Queue = append(r.Queue, steps...)
	if !parking && setFetch {
		r.SetFetching(item)
	}
}

// threeStepHorizontal is one escort shuffle of the three-step dance: one
// column toward the I/O, one row closer to it, one column back — net
// effect is a single row advance (spec §4.5). Returns pos unchanged and no
// steps once the robot is already on column 7.
func threeStepHorizontal(pos Pos) (Pos, []Step) {
	if pos.C == IOCol {
		return pos, nil
	}
	direction := -1
	if pos.C > IOCol {
		direction = 1
	}

	var steps []Step
	steps = append(steps, ColumnSteps(pos, pos.C-direction)...)
	loc2 := Pos{pos.R, pos.C - direction}
	steps = append(steps, RowSteps(loc2, pos.R-1)...)
	loc3 := Pos{pos.R - 1, pos.C - direction}
	steps = append(steps, ColumnSteps(loc3, pos.C)...)

	return Pos{pos.R - 1, pos.C}, steps
}

// threeStepVertical is the symmetric escort shuffle along rows: one row
// down, one column toward the I/O, one row back up — net effect is a
// single column advance toward c=7 (spec §4.5). If it lands back on row 0
// still off-column, one further compensating three-step is appended so
// the robot never gets stranded against the top wall.
func threeStepVertical(pos Pos) (Pos, []Step) {
	if pos.C == IOCol {
		return pos, nil
	}
	direction := -1
	if pos.C > IOCol {
		direction = 1
	}

	var steps []Step
	steps = append(steps, RowSteps(pos, pos.R-1)...)
	loc2 := Pos{pos.R - 1, pos.C}
	steps = append(steps, ColumnSteps(loc2, pos.C-direction)...)
	loc3 := Pos{pos.R - 1, pos.C - direction}
	steps = append(steps, RowSteps(loc3, pos.R)...)

	final := Pos{pos.R, pos.C - direction}
	if final.R == 0 {
		steps = append(steps, RowSteps(final, 1)...)
		loc4 := Pos{final.R + 1, final.C}
		steps = append(steps, ColumnSteps(loc4, final.C-direction)...)
		loc5 := Pos{final.R + 1, final.C - direction}
		steps = append(steps, RowSteps(loc5, 0)...)
		final = Pos{0, final.C - direction}
	}
	return final, steps
}

// threeStep queues the alternating horizontal/vertical escort shuffle that
// walks the robot's fetched item toward column 7 or up to row <=1 (spec
// §4.5), grounded on three_step/three_step_horizontal/three_step_vertical
// in the reference planner. Adjacency is already guaranteed by the CHECK
// sentinel decideStep consumed this tick; if the item has nonetheless
// vanished from the grid (an invariant we trust but verify defensively),
// this reroutes instead. If the robot is already past both thresholds, no
// three-step is needed at all — it transitions straight into the carry
// (spec §4.5 "if the produced queue is empty, transition directly to the
// three-step phase" mirrored here one level up, into five-step).
func (s *Scheduler) threeStep(id int) bool {
	r := s.robot(id)
	item := r.ItemToFetch
	if _, ok := s.Grid.FindItem(item); !ok {
		s.reroute(id)
		return false
	}

	pos := s.loc(id)
	cur := pos
	itemAbove := pos.R < Rows-1
	firstTime := true

	var steps []Step
	for cur.C != IOCol && cur.R > 0 {
		if firstTime && itemAbove {
			steps = append(steps, RowSteps(cur, cur.R+1)...)
			cur = Pos{cur.R + 1, cur.C}
		}
		firstTime = false

		next, hstep := threeStepHorizontal(cur)
		cur = next
		steps = append(steps, hstep...)

		if cur.R > 0 {
			next, vstep := threeStepVertical(cur)
			cur = next
			steps = append(steps, vstep...)
		}
	}

	r.SetCarrying(item)

	if len(steps) == 0 {
		s.fiveStep(id)
		return len(r.Queue) > 0
	}

	r.Queue = steps
	return true
}

// fiveStepHorizontal is one detour of the five-step dance for a robot
// sitting on row 0 or 1 off-column: up one row, two columns toward
// center, down one row, one column onto the item (spec §4.6). Net effect
// is a single column advance toward c=7.
func fiveStepHorizontal(pos Pos) (Pos, []Step) {
	var steps []Step
	switch {
	case pos.C > IOCol:
		steps = append(steps, RowSteps(pos, pos.R+1)...)
		loc2 := Pos{pos.R + 1, pos.C}
		steps = append(steps, ColumnSteps(loc2, pos.C-2)...)
		loc3 := Pos{pos.R + 1, pos.C - 2}
		steps = append(steps, RowSteps(loc3, pos.R)...)
		loc4 := Pos{pos.R, pos.C - 2}
		steps = append(steps, ColumnSteps(loc4, pos.C-1)...)
		return Pos{pos.R, pos.C - 1}, steps
	case pos.C < IOCol:
		steps = append(steps, RowSteps(pos, pos.R+1)...)
		loc2 := Pos{pos.R + 1, pos.C}
		steps = append(steps, ColumnSteps(loc2, pos.C+2)...)
		loc3 := Pos{pos.R + 1, pos.C + 2}
		steps = append(steps, RowSteps(loc3, pos.R)...)
		loc4 := Pos{pos.R, pos.C + 2}
		steps = append(steps, ColumnSteps(loc4, pos.C+1)...)
		return Pos{pos.R, pos.C + 1}, steps
	}
	return pos, nil
}

// fiveStepVertical is one detour for a robot on column 7 above the I/O:
// aside one column (left if the item's side is LEFT, right otherwise),
// down two rows, back to column 7, up one row (spec §4.6). Net effect is
// a single row advance toward r=1.
func fiveStepVertical(pos Pos, side Side) (Pos, []Step) {
	if pos.R <= 1 {
		return pos, nil
	}

	var steps []Step
	aside := 1
	if side == LEFT {
		aside = -1
	}
	steps = append(steps, ColumnSteps(pos, pos.C+aside)...)
	loc2 := Pos{pos.R, pos.C + aside}
	steps = append(steps, RowSteps(loc2, pos.R-2)...)
	loc3 := Pos{pos.R - 2, pos.C + aside}
	steps = append(steps, ColumnSteps(loc3, pos.C)...)
	loc4 := Pos{pos.R - 2, pos.C}
	steps = append(steps, RowSteps(loc4, pos.R-1)...)

	return Pos{pos.R - 1, pos.C}, steps
}

// aroundIOStep implements the I/O-fringe compensating move (spec §4.6
// final paragraph): once robotID is sitting at (0,7), check (0,6), (0,8),
// (1,7) in that fixed enumeration order (SPEC_FULL.md §3's pinned
// tie-break) for a pending-exit item. On a hit, commit the one-cell
// capture, claim the item for robotID, and — if another robot was already
// assigned to fetch it — unbind and reroute that robot onto fresh work.
// Returns true if it queued a compensating step.
func (s *Scheduler) aroundIOStep(id int) bool {
	pos := s.loc(id)
	for _, loc := range []Pos{{0, 6}, {0, 8}, {1, 7}} {
		cell := s.Grid.Cell(loc)
		if cell.Kind != ItemCell {
			continue
		}
		owner, pending := s.itemsToExit[cell.Item.Number]
		if !pending {
			continue
		}

		item := cell.Item.Number
		r := s.robot(id)
		r.Queue = append(r.Queue, Step{From: pos, To: loc})
		r.SetCarrying(item)
		s.itemsToExit[item] = id

		if owner != 0 && owner != id {
			s.robot(owner).Reset()
			s.newRoute(owner)
		}
		return true
	}
	return false
}

// fiveStep queues the final approach into the I/O cell: vertical
// five-steps down column 7 to row 1, or horizontal five-steps in from row
// 0/1 to column 6-8 (spec §4.6), finished by a direct hop onto (0,7) once
// past both thresholds. If the robot is already sitting at (0,7), it first
// tries the around-IO compensating capture instead of planning a fresh
// approach.
func (s *Scheduler) fiveStep(id int) {
	r := s.robot(id)
	pos := s.loc(id)

	if pos == (Pos{IORow, IOCol}) && s.aroundIOStep(id) {
		return
	}

	side := s.robotSide[id]
	if itemPos, ok := s.Grid.FindItem(r.ItemInCarry); ok {
		side = s.Grid.Cell(itemPos).Item.Side
	}

	var steps []Step
	cur := pos

	switch {
	case cur.C == IOCol:
		for cur.R > 1 {
			next, vstep := fiveStepVertical(cur, side)
			cur = next
			steps = append(steps, vstep...)
		}
	default:
		switch {
		case cur.C > IOCol:
			steps = append(steps, ColumnSteps(cur, cur.C-1)...)
			cur = Pos{cur.R, cur.C - 1}
		case cur.C < IOCol:
			steps = append(steps, ColumnSteps(cur, cur.C+1)...)
			cur = Pos{cur.R, cur.C + 1}
		}
		for cur.C < 6 || cur.C > 8 {
			next, hstep := fiveStepHorizontal(cur)
			cur = next
			steps = append(steps, hstep...)
		}
		if cur == (Pos{2, IOCol}) {
			next, vstep := fiveStepVertical(cur, side)
			cur = next
			steps = append(steps, vstep...)
		}
	}

	if cur.C != IOCol {
		steps = append(steps, ColumnSteps(cur, IOCol)...)
		cur = Pos{cur.R, IOCol}
	}
	if cur.R != IORow {
		steps = append(steps, RowSteps(cur, IORow)...)
	}

	r.Queue = append(r.Queue, steps...)
}

// reroute abandons robotID's current assignment (releasing the item back
// to the unassigned pool) and immediately looks for new work via
// newRoute (spec §4.9.4: triggered when a location check fails or a
// three-step pickup finds its item gone from the grid).
func (s *Scheduler) reroute(id int) {
	r := s.robot(id)
	item := r.ItemToFetch
	if item == 0 {
		item = r.ItemInCarry
	}
	r.Reset()
	if item != 0 {
		if _, pending := s.itemsToExit[item]; pending {
			s.itemsToExit[item] = 0
		}
	}
	s.log.Debug().Int("robot", id).Int("item", item).Int("tick", s.tick).Msg("reroute: location check failed")
	s.newRoute(id)
}

// newRoute assigns a free robot to a randomly chosen unassigned pending
// item from the robot's own side's distance list (spec §4.7: "randomly
// pick a pending item from the robot's side's distance list"), or parks it
// if that side has none left. Candidate items are sorted before the
// random pick so the choice is reproducible for a given seed regardless
// of Go's unordered map iteration.
func (s *Scheduler) newRoute(id int) {
	r := s.robot(id)
	if !r.IsFree() {
		return
	}

	var home DistanceList
	if s.robotSide[id] == LEFT {
		home = s.distances.Left
	} else {
		home = s.distances.Right
	}

	var candidates []int
	for _, entry := range home {
		if owner, pending := s.itemsToExit[entry.Item]; pending && owner == 0 {
			candidates = append(candidates, entry.Item)
		}
	}
	if len(candidates) == 0 {
		s.parkRobot(id)
		return
	}
	sort.Ints(candidates)

	item := ChoiceInt(s.rng, candidates)
	s.itemsToExit[item] = id
	s.log.Debug().Int("robot", id).Int("item", item).Int("tick", s.tick).Msg("new_route: assigned new item")
	s.manhattanJourney(id, item, true, false, Pos{})
}

// toNextItemPath builds the edge-first retreat route spec §4.8.2.a
// names for to_next_item: back to the robot's side's edge column (0 for
// LEFT, Cols-1 for RIGHT) at the current row, then down to the target's
// row, then across to the target's column. This keeps a robot that just
// delivered at the I/O out of the congested interior instead of cutting
// straight back across it.
func toNextItemPath(side Side, pos, target Pos) []Step {
	edgeCol := 0
	if side == RIGHT {
		edgeCol = Cols - 1
	}
	var steps []Step
	steps = append(steps, ColumnSteps(pos, edgeCol)...)
	mid1 := Pos{pos.R, edgeCol}
	steps = append(steps, RowSteps(mid1, target.R)...)
	mid2 := Pos{target.R, edgeCol}
	steps = append(steps, ColumnSteps(mid2, target.C)...)
	return steps
}

// toNextItem reassigns a robot that just delivered an item to the given
// pending item (exitCheck passes its side's farthest) via the edge-first route (spec
// §4.8.2.a, to_next_item), without releasing its prior (already-exited)
// assignment back to the pool. If item has already vanished from the
// grid (it should not still be pending once recomputed distances exclude
// it, but this guards against stale callers), the robot parks instead of
// re-registering an item it can never find.
func (s *Scheduler) toNextItem(id, item int) {
	r := s.robot(id)
	r.Reset()

	itemPos, ok := s.Grid.FindItem(item)
	if !ok {
		s.parkRobot(id)
		return
	}

	s.itemsToExit[item] = id
	steps := toNextItemPath(s.robotSide[id], s.loc(id), approachCell(itemPos))
	steps = append(steps, CheckStep())
	r.Queue = append(r.Queue, steps...)
	r.SetFetching(item)
}
