package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/report"
)

// analysisCmd shows a player's win/loss record, or the whole event's finished
// matches when no player is given.
var analysisCmd = &cobra.Command{
	Use:   "analysis [player]",
	Short: "Win/loss record and finished matches for a player",
	Long: `Show wins, losses, win rate and sets won/lost for one player across finished
matches, newest round first. Without a player, list every finished match and the
team-A set tally. A match with equal point totals counts as a loss for the player.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalysis,
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	player := ""
	if len(args) == 1 {
		player = strings.TrimSpace(args[0])
		if _, ok := t.PlayerStats()[player]; !ok {
			fmt.Fprintf(os.Stderr, "%s has no finished matches.\n", player)
		}
	}
	report.PrintAnalysis(os.Stdout, t.Analyze(player))
	return nil
}
