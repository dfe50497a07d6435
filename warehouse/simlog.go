package warehouse

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Move is one committed step of a robot's history: a per-tick entry in the
// append-only move log (spec §2 Log, §6 move_log). Fictitious moves are
// recorded as (loc, loc, false).
type Move struct {
	From, To Pos
	Carries  bool
}

// MoveLog is the length-RobotCount sequence of chronological per-robot
// move histories (spec §6: "entry i is the chronological list of move
// triples ... for robot i+1").
type MoveLog struct {
	robots [RobotCount + 1][]Move // index 0 unused, robots are 1..RobotCount
}

// Append records one committed move for robotID, in tick order. The log is
// append-only by construction — there is no removal API.
func (l *MoveLog) Append(robotID int, m Move) {
	l.robots[robotID] = append(l.robots[robotID], m)
}

// Robot returns the move history for robotID (1..RobotCount).
func (l *MoveLog) Robot(robotID int) []Move {
	return l.robots[robotID]
}

// Slice returns the length-RobotCount slice of per-robot histories, in
// robot-id order, matching the external move_log shape (spec §6).
func (l *MoveLog) Slice() [][]Move {
	out := make([][]Move, RobotCount)
	for i := 1; i <= RobotCount; i++ {
		out[i-1] = l.robots[i]
	}
	return out
}

// ExitRecord pairs an exited item with the tick it left the warehouse.
type ExitRecord struct {
	Item     int
	ExitTick int
}

// ExitLog is the append-only record of item exits. Ties in exit tick are
// permitted and broken by insertion order (spec §5 ordering guarantees).
type ExitLog struct {
	entries []ExitRecord
}

// Append records an exit in insertion order.
func (l *ExitLog) Append(item, tick int) {
	l.entries = append(l.entries, ExitRecord{Item: item, ExitTick: tick})
}

// Len reports how many items have exited so far.
func (l *ExitLog) Len() int { return len(l.entries) }

// Sorted returns the exit records ordered ascending by exit tick, with
// ties broken by original insertion order (spec §6 exit_log, §5 ordering
// guarantee (b)/(c)).
func (l *ExitLog) Sorted() []ExitRecord {
	out := make([]ExitRecord, len(l.entries))
	copy(out, l.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExitTick < out[j].ExitTick })
	return out
}

// ReplayMoves reconstructs the final grid by mechanically replaying log
// onto a clone of initial, one tick at a time, applying each robot's move
// in id order — the same mutation commitStep performs, but driven purely
// from the recorded log rather than live planner state (spec §8 P5: "move
// log replay determinism"). Before each tick's moves it also replays the
// scheduler's exit check: a to-exit item found on the I/O cell is replaced
// by the exit sentinel, keeping any robot standing there. initial must
// already carry the robots' starting positions (as BuildGrid leaves them,
// on their escort cells).
func ReplayMoves(initial *Grid, log MoveLog) *Grid {
	g := initial.Clone()
	ticks := len(log.Robot(1))
	io := Pos{IORow, IOCol}
	for t := 0; t < ticks; t++ {
		if cell := g.Cell(io); cell.Kind == ItemCell && cell.Item.ToExit {
			g.Set(io, Cell{Kind: ItemCell, Item: Item{Number: ExitSentinel}, RobotID: cell.RobotID})
		}
		for id := 1; id <= RobotCount; id++ {
			history := log.Robot(id)
			if t >= len(history) {
				continue
			}
			applyMove(g, id, history[t])
		}
	}
	return g
}

// applyMove performs one committed move's grid mutation, mirroring
// Scheduler.commitStep exactly: fictitious (From==To) moves are no-ops,
// and a carrying move swaps the item/escort payload atomically.
func applyMove(g *Grid, id int, m Move) {
	if m.From == m.To {
		return
	}
	fromCell := g.Cell(m.From)
	toCell := g.Cell(m.To)

	toCell.RobotID = id
	fromCell.RobotID = 0

	if m.Carries && toCell.Kind == EscortCell {
		escort := toCell.Escort
		toCell.Kind, toCell.Item = fromCell.Kind, fromCell.Item
		fromCell.Kind, fromCell.Escort, fromCell.Item = EscortCell, escort, Item{}
	}

	g.Set(m.From, fromCell)
	g.Set(m.To, toCell)
}

// ReplayDigest returns a SHA-256 hex digest of the canonicalized move log,
// used to assert byte-exact reproducibility (spec §8 P6) without diffing
// the full log in test output.
func ReplayDigest(log MoveLog) string {
	h := sha256.New()
	for robotID := 1; robotID <= RobotCount; robotID++ {
		for _, m := range log.Robot(robotID) {
			fmt.Fprintf(h, "%d|%d,%d|%d,%d|%t\n", robotID, m.From.R, m.From.C, m.To.R, m.To.C, m.Carries)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
