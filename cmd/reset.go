package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/report"
)

var (
	resetForce   bool
	simulateSeed int64
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero every score in the event",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fill every pending match with random plausible scores",
	Long: `Fill every pending match with random scores around 11 points per set.
In-progress and finished matches are left alone. Use --seed for repeatable results.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var renameCmd = &cobra.Command{
	Use:   "rename <event name>",
	Short: "Rename the event",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRename,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip confirmation prompt")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "random seed (0 picks one from the clock)")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce {
		fmt.Fprintf(os.Stderr, "This will zero every score in %s\n", cfg.StatePath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	if err := t.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fmt.Fprintln(os.Stdout, "All scores reset.")
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	seed := simulateSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n, err := t.SimulatePending(rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Simulated %d matches (seed %d).\n", n, seed)
	report.PrintEventHeader(os.Stdout, t.Snapshot())
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	if err := t.RenameEvent(strings.Join(args, " ")); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Event renamed to %q\n", t.Snapshot().EventName)
	return nil
}
