package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/report"
	"github.com/pable/go-badminton-tracker/internal/state"
)

var scoreCmd = &cobra.Command{
	Use:   "score <match-id> <a1> <a2> <b1> <b2>",
	Short: "Record set scores for a match (team A set 1, set 2, team B set 1, set 2)",
	Long: `Record the four set scores of a match. Status follows the scores:
all zero is pending, a second set of 0:0 is in progress, anything else is finished.`,
	Example: "  bmtrack score m1 21 19 15 21",
	Args:    cobra.ExactArgs(5),
	RunE:    runScore,
}

var clearCmd = &cobra.Command{
	Use:   "clear <match-id>",
	Short: "Clear a match's scores, returning it to pending",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

// parseScores reads four non-negative integers.
func parseScores(args []string) (model.Score, model.Score, error) {
	if len(args) != 4 {
		return model.Score{}, model.Score{}, fmt.Errorf("need 4 scores (a1 a2 b1 b2), got %d", len(args))
	}
	var v [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return model.Score{}, model.Score{}, fmt.Errorf("invalid score %q: %w", a, err)
		}
		if n < 0 {
			return model.Score{}, model.Score{}, fmt.Errorf("%w: %d", state.ErrNegativeScore, n)
		}
		v[i] = n
	}
	return model.Score{v[0], v[1]}, model.Score{v[2], v[3]}, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	a, b, err := parseScores(args[1:])
	if err != nil {
		return err
	}
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	m, err := t.SetScore(args[0], a, b)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	report.PrintMatchCard(os.Stdout, m)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	m, err := t.ClearScore(args[0])
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Cleared %s (%s)\n", m.ID, report.StatusLabel(m.Status))
	return nil
}
