package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/report"
)

// careerCmd prints archived totals for one or more players, or everyone.
var careerCmd = &cobra.Command{
	Use:   "career [player...]",
	Short: "Cross-event statistics from the archive",
	Long: `Show events attended, finished matches, wins and per-category counts from every
archived event. With exactly one player, also list their partners.`,
	RunE: runCareer,
}

func runCareer(cmd *cobra.Command, args []string) error {
	db, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.CareerStats(args...)
	if err != nil {
		return fmt.Errorf("query career: %w", err)
	}
	if len(stats) == 0 {
		fmt.Fprintln(os.Stdout, "No archived data for the given players.")
		return nil
	}
	report.PrintCareer(os.Stdout, stats)

	if len(args) == 1 {
		partners, err := db.Partners(args[0])
		if err != nil {
			return fmt.Errorf("query partners: %w", err)
		}
		if len(partners) > 0 {
			fmt.Fprintf(os.Stdout, "\n--- Partners of %s ---\n\n", args[0])
			report.PrintPartners(os.Stdout, partners)
		}
	}
	return nil
}
