package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level event overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the event",
	Long: `Display progress per court, the category breakdown of finished matches
and each player's win/loss record.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	doc := t.Snapshot()
	ov := aggregator.Overview(doc)

	fmt.Fprintf(os.Stdout, "\n=== %s ===\n\n", doc.EventName)
	fmt.Fprintf(os.Stdout, "  Courts       : %d\n", ov.CourtCount)
	fmt.Fprintf(os.Stdout, "  Matches      : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Finished     : %d\n", ov.Finished)
	fmt.Fprintf(os.Stdout, "  In progress  : %d\n", ov.InProgress)
	fmt.Fprintf(os.Stdout, "  Pending      : %d\n", ov.Pending)
	fmt.Fprintf(os.Stdout, "  Players seen : %d\n", len(doc.PlayerStats))

	// Court breakdown.
	fmt.Fprintf(os.Stdout, "\n--- Courts ---\n\n")
	ct := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	ct.Header("COURT", "MATCHES", "FINISHED", "DONE%")
	for c := 1; c <= doc.CourtCount; c++ {
		court := aggregator.ByCourt(doc.Matches, c)
		done := len(aggregator.Finished(court))
		pct := 0.0
		if len(court) > 0 {
			pct = 100.0 * float64(done) / float64(len(court))
		}
		ct.Append(
			fmt.Sprintf("%d", c),
			fmt.Sprintf("%d", len(court)),
			fmt.Sprintf("%d", done),
			fmt.Sprintf("%.0f%%", pct),
		)
	}
	ct.Render()

	finished := aggregator.Finished(doc.Matches)
	if len(finished) == 0 {
		return nil
	}

	// Category breakdown, only shown when more than one category has been played.
	counts := map[model.Category]int{}
	for _, m := range finished {
		counts[m.Category]++
	}
	if len(counts) > 1 {
		fmt.Fprintf(os.Stdout, "\n--- Categories ---\n\n")
		tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		tt.Header("TYPE", "FINISHED")
		for _, c := range aggregator.Categories(finished) {
			tt.Append(string(c), fmt.Sprintf("%d", counts[c]))
		}
		tt.Render()
	}

	fmt.Fprintf(os.Stdout, "\n--- Records ---\n\n")
	report.PrintRecords(os.Stdout, t.PlayerRecords())
	return nil
}
