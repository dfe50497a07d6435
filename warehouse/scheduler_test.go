package warehouse

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// smallScenario builds a grid small enough (in pending-item count) to
// finish quickly: one item near the I/O cell on each side. 101 and 115 are
// free to reuse because sampleMatrix turns (0,0) and (0,14) into escorts.
func smallScenario(t *testing.T) ([][]int, []int) {
	t.Helper()
	m := sampleMatrix()
	m[1][6] = 101
	m[1][8] = 115
	return m, []int{101, 115}
}

func TestScheduler_RunExitsAllItems(t *testing.T) {
	matrix, itemsToExit := smallScenario(t)
	grid, robotSide, err := BuildGrid(matrix, itemsToExit)
	require.NoError(t, err)

	sched, err := NewScheduler(grid, robotSide, itemsToExit, RandomSeed, testLogger())
	require.NoError(t, err)

	summary, err := sched.Run()
	require.NoError(t, err)
	require.Len(t, summary.Exits, len(itemsToExit))

	seen := map[int]bool{}
	for _, e := range summary.Exits {
		seen[e.Item] = true
	}
	for _, item := range itemsToExit {
		require.True(t, seen[item], "expected item %d to have exited", item)
	}
}

func TestScheduler_RunIsDeterministic(t *testing.T) {
	matrix, itemsToExit := smallScenario(t)

	run := func() string {
		grid, robotSide, err := BuildGrid(matrix, itemsToExit)
		require.NoError(t, err)
		sched, err := NewScheduler(grid, robotSide, itemsToExit, RandomSeed, testLogger())
		require.NoError(t, err)
		_, err = sched.Run()
		require.NoError(t, err)
		return ReplayDigest(sched.Moves)
	}

	require.Equal(t, run(), run())
}

func TestScheduler_NoPendingItemsFinishesImmediately(t *testing.T) {
	matrix := sampleMatrix()
	grid, robotSide, err := BuildGrid(matrix, nil)
	require.NoError(t, err)

	sched, err := NewScheduler(grid, robotSide, nil, RandomSeed, testLogger())
	require.NoError(t, err)

	summary, err := sched.Run()
	require.NoError(t, err)
	require.Equal(t, 0, summary.Ticks)
	require.Empty(t, summary.Exits)
}

// TestExitCheck_DoesNotResurrectJustExitedItem guards against a stale-
// distance-index regression: a RIGHT item sitting at (0,7) (c==IOCol, so
// it's carried in distances.Right at distance 0) delivers while a LEFT
// item is still pending elsewhere. exitCheck must not hand the retiring
// robot its own just-exited item back as "next" — that item is now the
// 999 sentinel and can never be found again, which would otherwise wedge
// it in itemsToExit forever (spec §8 S3's one-item-per-side class).
func TestExitCheck_DoesNotResurrectJustExitedItem(t *testing.T) {
	m := sampleMatrix()
	rightItem := m[0][7] // already sitting at the I/O cell
	leftItem := m[6][2]  // still pending on the other side

	items := []int{rightItem, leftItem}
	grid, robotSide, err := BuildGrid(m, items)
	require.NoError(t, err)

	sched, err := NewScheduler(grid, robotSide, items, RandomSeed, testLogger())
	require.NoError(t, err)

	const id = 2 // RIGHT-assigned robot delivering rightItem
	sched.itemsToExit[rightItem] = id
	sched.robot(id).SetCarrying(rightItem)

	sched.exitCheck()

	_, stillPending := sched.itemsToExit[rightItem]
	require.False(t, stillPending, "exited item must not be re-registered as pending")
	require.Equal(t, 1, sched.Exits.Len())

	// The robot must have been reassigned to a real, findable item (or
	// parked) rather than stuck chasing the sentinel.
	r := sched.robot(id)
	if r.ItemToFetch != 0 {
		_, ok := sched.Grid.FindItem(r.ItemToFetch)
		require.True(t, ok, "reassigned fetch target must still exist on the grid")
	}
}

// TestNewRoute_RespectsRobotSide guards against a reroute crossing sides:
// a LEFT robot with no assignment must only ever be handed a pending item
// from distances.Left, never one from the RIGHT list (spec §4.7).
func TestNewRoute_RespectsRobotSide(t *testing.T) {
	m := sampleMatrix()
	leftItem := m[6][2]
	rightItem := m[6][12]
	items := []int{leftItem, rightItem}

	grid, robotSide, err := BuildGrid(m, items)
	require.NoError(t, err)

	sched, err := NewScheduler(grid, robotSide, items, RandomSeed, testLogger())
	require.NoError(t, err)

	const id = 1 // LEFT robot (spec's fixed side pattern)
	require.Equal(t, LEFT, robotSide[id])

	sched.newRoute(id)

	r := sched.robot(id)
	require.Equal(t, leftItem, r.ItemToFetch, "a LEFT robot's reroute must only ever claim a LEFT item")
}
