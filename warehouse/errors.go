package warehouse

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the error taxonomy from spec §7. These are kinds,
// not concrete types — SimError wraps one of these sentinels so callers
// can branch with errors.Is while still getting diagnostic context.
type ErrorKind error

// Sentinel kinds. Compare with errors.Is(err, ErrInvalidInput) etc.
var (
	// ErrInvalidInput: grid shape wrong, missing items, duplicate numbers,
	// escort count != RobotCount. Reported at load time; aborts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPlannerStuck: queue generation returned no steps when at least
	// one was required. Recoverable — triggers reroute/new_route.
	ErrPlannerStuck = errors.New("planner stuck")
	// ErrNoProgress: global tick cap exceeded with items still pending.
	// Fatal.
	ErrNoProgress = errors.New("no progress")
	// ErrInvariantViolation: one of I1-I5 failed on commit. Fatal bug
	// surface.
	ErrInvariantViolation = errors.New("invariant violation")
)

// SimError carries the diagnostic state spec §7 requires on fatal
// failures: the kind, the tick, the offending robot (if local to one),
// and the offending cells.
type SimError struct {
	Kind    ErrorKind
	Tick    int
	RobotID int // 0 if not robot-local
	Cells   []Pos
	Err     error // optional wrapped detail; may be nil
}

func (e *SimError) Error() string {
	msg := fmt.Sprintf("%v at tick %d", e.Kind, e.Tick)
	if e.RobotID != 0 {
		msg += fmt.Sprintf(" (robot %d)", e.RobotID)
	}
	if len(e.Cells) > 0 {
		msg += fmt.Sprintf(" cells=%v", e.Cells)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *SimError) Unwrap() error { return e.Kind }

func newSimError(kind ErrorKind, tick, robotID int, cells []Pos, err error) *SimError {
	return &SimError{Kind: kind, Tick: tick, RobotID: robotID, Cells: cells, Err: err}
}
