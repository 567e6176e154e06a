package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/config"
	"github.com/pable/go-badminton-tracker/internal/report"
)

var statsGender string

// statsCmd prints how many finished matches each player took part in, per category.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Per-player appearance counts over finished matches",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsGender, "gender", "", "only list male or female players (uses --roster)")
}

func runStats(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	doc := t.Snapshot()
	names := aggregator.RankPlayers(doc.PlayerStats)
	if statsGender != "" {
		g, err := config.ParseGender(statsGender)
		if err != nil {
			return err
		}
		roster, err := loadRoster()
		if err != nil {
			return err
		}
		names = aggregator.FilterByGender(names, roster, g)
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stdout, "No finished matches yet.")
		return nil
	}
	report.PrintStatsTable(os.Stdout, doc.PlayerStats, names, aggregator.Categories(doc.Matches))
	return nil
}
