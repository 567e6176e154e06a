package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/report"
)

var listCourt int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List matches court by court",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listCourt, "court", 0, "only show this court")
}

func runList(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	doc := t.Snapshot()
	report.PrintEventHeader(os.Stdout, doc)

	courts := make([]int, 0, doc.CourtCount)
	if listCourt > 0 {
		courts = append(courts, listCourt)
	} else {
		for c := 1; c <= doc.CourtCount; c++ {
			courts = append(courts, c)
		}
	}
	for _, c := range courts {
		matches := t.Matches(c)
		fmt.Fprintf(os.Stdout, "Court %d\n", c)
		if len(matches) == 0 {
			fmt.Fprintln(os.Stdout, "  no matches scheduled")
			continue
		}
		report.PrintMatchList(os.Stdout, matches)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
