package warehouse

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON-based load/dump helpers for the thin I/O boundary (spec §6). The
// simulator itself never touches a filesystem path directly; callers
// (the CLI) open files and hand this package readers/writers, keeping
// the warehouse package importable from tests without touching disk.

// gridFile is the on-disk shape for a 9x15 matrix: 0 marks an escort
// cell, any positive integer an item's catalogue number.
type gridFile struct {
	Matrix [][]int `json:"matrix"`
}

// LoadGrid decodes a grid matrix from r.
func LoadGrid(r io.Reader) ([][]int, error) {
	var gf gridFile
	if err := json.NewDecoder(r).Decode(&gf); err != nil {
		return nil, fmt.Errorf("decode grid: %w", err)
	}
	return gf.Matrix, nil
}

// itemsToExitFile is the on-disk shape for the set of catalogue numbers
// that must leave the warehouse before the run is considered complete.
type itemsToExitFile struct {
	Items []int `json:"items_to_exit"`
}

// LoadItemsToExit decodes the pending-exit item list from r.
func LoadItemsToExit(r io.Reader) ([]int, error) {
	var ef itemsToExitFile
	if err := json.NewDecoder(r).Decode(&ef); err != nil {
		return nil, fmt.Errorf("decode items_to_exit: %w", err)
	}
	return ef.Items, nil
}

// moveLogFile mirrors the move_log shape from spec §6: entry i is robot
// i+1's chronological move history.
type moveLogFile struct {
	Moves [][]moveEntry `json:"move_log"`
}

type moveEntry struct {
	FromR, FromC int
	ToR, ToC     int
	Carries      bool
}

func (m moveEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{[2]int{m.FromR, m.FromC}, [2]int{m.ToR, m.ToC}, m.Carries})
}

// DumpMoveLog writes the move log in the wire shape expected by spec §6
// consumers: a length-RobotCount array of per-robot move-triple lists.
func DumpMoveLog(w io.Writer, log MoveLog) error {
	mf := moveLogFile{Moves: make([][]moveEntry, RobotCount)}
	for i, moves := range log.Slice() {
		entries := make([]moveEntry, len(moves))
		for j, m := range moves {
			entries[j] = moveEntry{m.From.R, m.From.C, m.To.R, m.To.C, m.Carries}
		}
		mf.Moves[i] = entries
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mf)
}

// exitLogFile mirrors exit_log: item number paired with the tick it left
// the warehouse, ordered ascending by tick (spec §6).
type exitLogFile struct {
	Exits []ExitRecord `json:"exit_log"`
}

// DumpExitLog writes the exit log, sorted ascending by exit tick.
func DumpExitLog(w io.Writer, log ExitLog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exitLogFile{Exits: log.Sorted()})
}

// CreateTruncated opens path for writing, creating it if necessary and
// truncating any existing content — the CLI's one filesystem touch-point
// for result artifacts.
func CreateTruncated(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}
