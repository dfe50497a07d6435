package warehouse

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Scheduler owns the single exclusive warehouse resource (the Grid) plus
// the derived caches recomputed each tick, and drives the tick loop (spec
// §4.8). It is the only mutable, non-random piece of global state (spec
// §9 Design notes): there is exactly one Scheduler per simulation run,
// used from a single goroutine, never shared.
type Scheduler struct {
	Grid *Grid

	// RunID uniquely tags one simulation run in the logs, for correlating
	// log lines from a single run.
	RunID string

	robots         [RobotCount + 1]*Robot // index 0 unused
	robotPositions [RobotCount + 1]Pos
	robotSide      [RobotCount + 1]Side

	// itemsToExit maps a pending catalogue number to its owning robot id,
	// or 0 if unassigned ("FREE" in spec §3).
	itemsToExit map[int]int

	distances DistanceIndex

	leftParking  []Pos
	rightParking []Pos

	tick     int
	maxTicks int
	rng      *RNG

	Moves MoveLog
	Exits ExitLog

	log zerolog.Logger
}

// Summary is the result of a successful Run: total ticks elapsed and the
// exit records in ascending-tick order (spec §4.13).
type Summary struct {
	Ticks int
	Exits []ExitRecord
}

// NewScheduler builds a Scheduler over an already-populated grid. seed
// drives the single deterministic random stream (spec §5); production
// callers always pass RandomSeed.
func NewScheduler(g *Grid, robotSide map[int]Side, itemsToExit []int, seed int64, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		Grid:        g,
		RunID:       uuid.New().String(),
		itemsToExit: make(map[int]int, len(itemsToExit)),
		rng:         NewRNG(seed),
		log:         logger,
	}
	s.log = s.log.With().Str("run_id", s.RunID).Logger()

	for id, side := range robotSide {
		s.robots[id] = &Robot{ID: id, AssignedSide: side}
		s.robotSide[id] = side
	}
	for _, n := range itemsToExit {
		s.itemsToExit[n] = 0
	}
	s.leftParking = append([]Pos{}, LeftParkingOrder...)
	s.rightParking = append([]Pos{}, RightParkingOrder...)

	s.recomputePositions()
	s.maxTicks = 10 * (len(itemsToExit) + 1) * (2 * (Rows + Cols))

	if err := s.checkInvariants(); err != nil {
		return nil, err
	}
	return s, nil
}

// recomputePositions rebuilds robot_positions and the distance index from
// ground truth (spec §4.8.d, §9: derived caches, recomputed not patched).
func (s *Scheduler) recomputePositions() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			cell := s.Grid.cells[r][c]
			if cell.RobotID != 0 {
				s.robotPositions[cell.RobotID] = Pos{r, c}
			}
		}
	}
	s.distances.Recompute(s.Grid, s.itemsToExit)
}

func (s *Scheduler) robot(id int) *Robot { return s.robots[id] }
func (s *Scheduler) loc(id int) Pos      { return s.robotPositions[id] }

// Run executes the tick loop to completion (spec §4.8) and returns the
// run summary, or a fatal *SimError (NoProgress / InvariantViolation).
func (s *Scheduler) Run() (*Summary, error) {
	if len(s.itemsToExit) == 0 {
		return &Summary{Ticks: 0}, nil
	}

	s.runningFirstTime()
	s.tick = 1

	for len(s.itemsToExit) > 0 {
		if s.tick > s.maxTicks {
			return nil, newSimError(ErrNoProgress, s.tick, 0, nil,
				fmt.Errorf("%d items still pending after %d ticks", len(s.itemsToExit), s.maxTicks))
		}
		if err := s.runTick(); err != nil {
			return nil, err
		}
		s.tick++
	}

	s.log.Info().Int("ticks", s.tick).Msg("simulation complete")
	return &Summary{Ticks: s.tick, Exits: s.Exits.Sorted()}, nil
}

// runningFirstTime plans the very first Manhattan journeys (spec
// §4.8.1): robots 1,3,5 (left side) pursue their side's items at
// distance-list indices -1,-3,-5 and robots 2,4 (right side) at indices
// 1,3 — a parity-based pick over the ascending distance lists that sends
// the three left robots after items at the far end of their list and the
// two right robots after items near the front of theirs.
func (s *Scheduler) runningFirstTime() {
	for id := 1; id <= RobotCount; id++ {
		var home DistanceList
		if s.robotSide[id] == LEFT {
			home = s.distances.Left
		} else {
			home = s.distances.Right
		}
		if len(home) == 0 {
			s.newRoute(id)
			continue
		}

		var idx int
		if s.robotSide[id] == LEFT {
			idx = len(home) - id
		} else {
			idx = id - 1
		}
		item := home[mod(idx, len(home))].Item

		// The -1,-3,-5 / 1,3 parity spread only lands on distinct items
		// when a side has enough pending items (3 or >=5 on the left, since
		// with exactly 4 the -1 and -5 indices coincide; >=3 on the right);
		// otherwise two ids can collide on the same index.
		// Fall back to the ordinary dedup-safe assignment rather than
		// double-booking the item to two robots.
		if owner, taken := s.itemsToExit[item]; taken && owner != 0 {
			s.newRoute(id)
			continue
		}

		s.itemsToExit[item] = id
		s.manhattanJourney(id, item, true, false, Pos{})
	}
}

func mod(n, m int) int {
	if m == 0 {
		return 0
	}
	n %= m
	if n < 0 {
		n += m
	}
	return n
}

// runTick executes steps 2a-2e of the tick loop for one discrete time
// unit.
func (s *Scheduler) runTick() error {
	s.exitCheck()

	apply := [RobotCount + 1]bool{}
	for id := 1; id <= RobotCount; id++ {
		apply[id] = s.decideStep(id)
	}
	for id := 1; id <= RobotCount; id++ {
		s.commitStep(id, apply[id])
	}

	s.recomputePositions()
	if err := s.checkInvariants(); err != nil {
		return err
	}
	return nil
}

// exitCheck implements spec §4.8.2.a: if the I/O cell holds a pending-exit
// item, consume it and reassign its former owner.
func (s *Scheduler) exitCheck() {
	ioCell := s.Grid.Cell(Pos{IORow, IOCol})
	if ioCell.Kind != ItemCell {
		return
	}
	robotID, pending := s.itemsToExit[ioCell.Item.Number]
	if !pending {
		return
	}

	item := ioCell.Item.Number
	s.Exits.Append(item, s.tick+1)
	delete(s.itemsToExit, item)
	s.Grid.Set(Pos{IORow, IOCol}, Cell{Kind: ItemCell, Item: Item{Number: ExitSentinel}, RobotID: ioCell.RobotID})
	s.log.Info().Int("item", item).Int("tick", s.tick).Int("robot", robotID).Msg("item exited")

	if robotID == 0 || len(s.itemsToExit) == 0 {
		return
	}

	// The distance index still reflects the end of the previous tick, so
	// it can still list the item just deleted above (it sat at (0,7),
	// c==IOCol, and so belonged to distances.Right at distance 0). Rebuild
	// it against the post-delete itemsToExit before picking the next item,
	// or the farthest-pending lookup below can hand the retiring robot its
	// own just-exited (now-sentinel) item back.
	s.distances.Recompute(s.Grid, s.itemsToExit)

	if s.robotSide[robotID] == LEFT {
		if len(s.distances.Left) > 0 {
			next := s.distances.Left[len(s.distances.Left)-1].Item
			s.toNextItem(robotID, next)
			return
		}
	} else {
		if len(s.distances.Right) > 0 {
			next := s.distances.Right[len(s.distances.Right)-1].Item
			s.toNextItem(robotID, next)
			return
		}
	}
	s.parkRobot(robotID)
}

// decideStep plans what robotID should do this tick against the frozen
// pre-tick grid snapshot (spec §5: "step selection reads a frozen
// snapshot of positions"), returning whether a real (non-fictitious) step
// should be committed this tick. It may mutate the robot's own queue
// (reroute/new_route/escape/freeze) but never the grid.
func (s *Scheduler) decideStep(id int) bool {
	r := s.robot(id)

	if len(r.Queue) > 0 && r.Queue[0].Check {
		if s.locationCheck(id) {
			r.Queue = r.Queue[1:]
		} else {
			return false
		}
	}

	if len(r.Queue) == 0 {
		switch {
		case r.ItemToFetch != 0:
			if s.threeStep(id) {
				return true
			}
			return r.ItemInCarry != 0 && len(r.Queue) > 0
		case r.ItemInCarry != 0:
			s.fiveStep(id)
			return len(r.Queue) > 0
		default:
			return false
		}
	}

	step := r.Queue[0]
	if step.From == step.To {
		return true
	}

	dest := step.To
	if s.Grid.HasRobot(dest) {
		s.escape(id, dest)
		return true
	}

	if s.Grid.IsEscort(dest) && !s.Grid.HasExitEscortForRobot(dest, id) {
		owner := s.Grid.WhichRobotEscort(dest)
		if s.robot(owner).IsFree() {
			s.reroute(id)
		} else {
			s.freeze(id)
		}
		return false
	}

	if InRestrictedZone(dest) && r.ItemInCarry != 0 {
		if s.canProceed(id) {
			return true
		}
		if adj, ok := s.Grid.AroundRobot(s.loc(id)); ok {
			s.escape(id, adj)
		} else {
			s.freeze(id)
		}
		return false
	}

	return true
}

// commitStep applies the step chosen (or re-chosen, after a same-tick
// escape) for robotID, appending to the move log (spec §4.8.2.c). Because
// this runs in robot-id order and mutates the grid immediately, later
// robots in the same tick observe earlier robots' commits (spec §5).
func (s *Scheduler) commitStep(id int, apply bool) {
	r := s.robot(id)
	pos := s.loc(id)

	if !apply || len(r.Queue) == 0 {
		s.Moves.Append(id, Move{From: pos, To: pos})
		return
	}

	step := r.Queue[0]

	// Same-tick re-check: an earlier robot's commit this tick may have
	// just occupied our destination even though decideStep's frozen-
	// snapshot view found it clear.
	if step.From != step.To && s.Grid.HasRobot(step.To) {
		s.escape(id, step.To)
		if len(r.Queue) == 0 {
			s.Moves.Append(id, Move{From: pos, To: pos})
			return
		}
		step = r.Queue[0]
	}

	r.Queue = r.Queue[1:]

	if step.From != pos && step.From != step.To {
		// Defensive: the robot's recorded position should always match
		// the step's origin; fall back to the live position rather than
		// desyncing the log.
		step.From = pos
	}

	if step.From == step.To {
		s.Moves.Append(id, Move{From: step.From, To: step.To})
		return
	}

	fromCell := s.Grid.Cell(step.From)
	toCell := s.Grid.Cell(step.To)

	toCell.RobotID = id
	fromCell.RobotID = 0

	if step.Carries {
		if toCell.Kind != EscortCell {
			s.log.Error().Int("robot", id).Msg("carries-step landed on non-escort cell")
		} else {
			escort := toCell.Escort
			toCell.Kind, toCell.Item = fromCell.Kind, fromCell.Item
			fromCell.Kind, fromCell.Escort, fromCell.Item = EscortCell, escort, Item{}
		}
	}

	s.Grid.Set(step.From, fromCell)
	s.Grid.Set(step.To, toCell)
	s.Moves.Append(id, Move{From: step.From, To: step.To, Carries: step.Carries})
}

// freeze pushes three self-loop steps to the front of robotID's queue
// (spec §6 "freeze duration = 3 ticks").
func (s *Scheduler) freeze(id int) {
	pos := s.loc(id)
	loop := Step{From: pos, To: pos}
	s.robot(id).PushFront(loop, loop, loop)
	s.log.Debug().Int("robot", id).Int("tick", s.tick).Msg("freeze: waiting out a foreign escort/arbitration loss")
}

// locationCheck verifies the robot carrying/fetching an item is still
// orthogonally adjacent to it (accounting for saturating edge clamps),
// gating three-step/five-step dispatch (spec §4.5 CHECK sentinel,
// §4.9.5 location_check). On failure it triggers reroute.
func (s *Scheduler) locationCheck(id int) bool {
	r := s.robot(id)
	pos := s.loc(id)
	item := r.ItemInCarry
	if item == 0 {
		item = r.ItemToFetch
	}

	itemPos, ok := s.Grid.FindItem(item)
	if !ok {
		s.reroute(id)
		return false
	}

	for _, n := range s.Grid.Neighbours(pos) {
		if n == itemPos {
			return true
		}
	}
	s.reroute(id)
	return false
}

// canProceed implements the restricted-zone arbitration rule: among all
// carrying robots in the arbitration zone, the one with the smallest
// Manhattan distance to the I/O wins (spec §4.8.2.b, §4.9.2).
func (s *Scheduler) canProceed(id int) bool {
	bestID, bestDist := 0, -1
	for r := 0; r <= 5; r++ {
		for c := 4; c <= 10; c++ {
			p := Pos{r, c}
			if !InArbitrationZone(p) || !InBounds(p) {
				continue
			}
			cell := s.Grid.Cell(p)
			if cell.RobotID == 0 {
				continue
			}
			candidate := s.robot(cell.RobotID)
			if candidate.ItemInCarry == 0 {
				continue
			}
			d := p.Manhattan()
			if bestID == 0 || d < bestDist {
				bestID, bestDist = candidate.ID, d
			}
		}
	}
	if bestID == 0 {
		return true
	}
	if bestID != id {
		s.log.Debug().Int("robot", id).Int("winner", bestID).Int("tick", s.tick).
			Msg("restricted zone arbitration: lost to a closer carrier")
	}
	return bestID == id
}

// escape plans a detour around a blocking robot: one primitive step
// perpendicular to the conflict axis, a three-tick freeze, then a
// primitive step back — pushed onto the front of the queue so it runs
// before the interrupted plan resumes (spec §4.9).
func (s *Scheduler) escape(id int, otherNextLoc Pos) {
	if s.Grid.Cell(otherNextLoc).RobotID == id {
		return // fictitious: "other robot" resolved to self
	}

	pos := s.loc(id)
	var direction int
	switch {
	case pos.R == 0 || pos.C == 0:
		direction = 1
	case pos.R == Rows-1 || pos.C == Cols-1:
		direction = -1
	default:
		direction = s.rng.Sign()
	}

	var steps []Step
	if pos.C == otherNextLoc.C {
		tmp := Pos{pos.R, pos.C + direction}
		steps = append(steps, ColumnSteps(pos, pos.C+direction)...)
		steps = append(steps, Step{From: tmp, To: tmp}, Step{From: tmp, To: tmp}, Step{From: tmp, To: tmp})
		steps = append(steps, ColumnSteps(tmp, pos.C)...)
	} else if pos.R == otherNextLoc.R {
		tmp := Pos{pos.R + direction, pos.C}
		steps = append(steps, RowSteps(pos, pos.R+direction)...)
		steps = append(steps, Step{From: tmp, To: tmp}, Step{From: tmp, To: tmp}, Step{From: tmp, To: tmp})
		steps = append(steps, RowSteps(tmp, pos.R)...)
	} else {
		return
	}

	s.robot(id).PushFront(steps...)
	s.log.Debug().Int("robot", id).Int("tick", s.tick).Msg("escape: detouring around a blocking robot")
}

// parkRobot sends a retiring robot to its side's next vacant final
// position (spec §4.10).
func (s *Scheduler) parkRobot(id int) {
	r := s.robot(id)
	r.ItemInCarry = 0
	r.ItemToFetch = 0
	r.Parked = true

	var target Pos
	if s.robotSide[id] == LEFT {
		target, s.leftParking = s.leftParking[0], s.leftParking[1:]
	} else {
		target, s.rightParking = s.rightParking[0], s.rightParking[1:]
	}

	s.manhattanJourney(id, 0, true, true, target)
}
