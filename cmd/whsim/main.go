// Command whsim runs the warehouse facility simulator against a named
// scenario pair (<identifier>.grid.json, <identifier>.items.json) and
// writes the resulting move and exit logs.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"warehouse_challenge/warehouse"
)

var (
	workDir  string
	seedFlag int64
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "whsim",
	Short: "Warehouse robot facility simulator",
}

var runCmd = &cobra.Command{
	Use:   "run <identifier>",
	Short: "Run a scenario to completion and write its move/exit logs",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", ".", "directory containing scenario files and where output is written")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", warehouse.RandomSeed, "override the frozen random seed (tests only)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "emit debug-level logs")
	rootCmd.AddCommand(runCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()
}

func runScenario(cmd *cobra.Command, args []string) error {
	identifier := args[0]
	log := newLogger()

	gridPath := filepath.Join(workDir, identifier+".grid.json")
	itemsPath := filepath.Join(workDir, identifier+".items.json")

	gridFile, err := os.Open(gridPath)
	if err != nil {
		return fmt.Errorf("open grid file: %w", err)
	}
	defer gridFile.Close()
	matrix, err := warehouse.LoadGrid(gridFile)
	if err != nil {
		return err
	}

	itemsFile, err := os.Open(itemsPath)
	if err != nil {
		return fmt.Errorf("open items file: %w", err)
	}
	defer itemsFile.Close()
	itemsToExit, err := warehouse.LoadItemsToExit(itemsFile)
	if err != nil {
		return err
	}

	grid, robotSide, err := warehouse.BuildGrid(matrix, itemsToExit)
	if err != nil {
		return reportSimError(err)
	}

	sched, err := warehouse.NewScheduler(grid, robotSide, itemsToExit, seedFlag, log)
	if err != nil {
		return reportSimError(err)
	}

	summary, err := sched.Run()
	if err != nil {
		return reportSimError(err)
	}

	prefix := identifier
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	movesPath := filepath.Join(workDir, fmt.Sprintf("robots_moves_%s.json", prefix))
	exitsPath := filepath.Join(workDir, fmt.Sprintf("extractions_%s.json", prefix))

	movesOut, err := warehouse.CreateTruncated(movesPath)
	if err != nil {
		return fmt.Errorf("create moves file: %w", err)
	}
	defer movesOut.Close()
	if err := warehouse.DumpMoveLog(movesOut, sched.Moves); err != nil {
		return fmt.Errorf("write moves file: %w", err)
	}

	exitsOut, err := warehouse.CreateTruncated(exitsPath)
	if err != nil {
		return fmt.Errorf("create exits file: %w", err)
	}
	defer exitsOut.Close()
	if err := warehouse.DumpExitLog(exitsOut, sched.Exits); err != nil {
		return fmt.Errorf("write exits file: %w", err)
	}

	fmt.Printf("completed in %d ticks, %d items exited\n", summary.Ticks, len(summary.Exits))
	return nil
}

// reportSimError prints the structured diagnostic fields spec §7 requires
// on a fatal failure, then returns the error so cobra's usual "Error:"
// line and non-zero exit code still apply.
func reportSimError(err error) error {
	var simErr *warehouse.SimError
	if errors.As(err, &simErr) {
		fmt.Fprintf(os.Stderr, "simulation failed: %v (kind=%v robot=%d tick=%d cells=%v)\n",
			simErr.Err, simErr.Kind, simErr.RobotID, simErr.Tick, simErr.Cells)
		return err
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
