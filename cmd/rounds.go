package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/report"
)

var (
	roundsCourt  int
	roundsStatus string
	roundsType   string
)

// roundsCmd lists the schedule round by round across all courts.
var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Show the schedule round by round, with optional filters",
	Args:  cobra.NoArgs,
	RunE:  runRounds,
}

func init() {
	roundsCmd.Flags().IntVar(&roundsCourt, "court", 0, "filter by court")
	roundsCmd.Flags().StringVar(&roundsStatus, "status", "", "filter by status: pending, in-progress, finished")
	roundsCmd.Flags().StringVar(&roundsType, "type", "", "filter by category: 混双, 男双, 女双 or mixed, mens, womens")
}

// categoryAliases lets the CLI accept ASCII names for the built-in categories.
var categoryAliases = map[string]model.Category{
	"mixed":   model.CategoryMixed,
	"mens":    model.CategoryMens,
	"men's":   model.CategoryMens,
	"womens":  model.CategoryWomens,
	"women's": model.CategoryWomens,
}

func parseCategory(s string) model.Category {
	if c, ok := categoryAliases[strings.ToLower(s)]; ok {
		return c
	}
	return model.Category(s)
}

// filterMatches applies --court, --status and --type.
func filterMatches(matches []model.MatchRecord, court int, status, category string) []model.MatchRecord {
	status = strings.ToLower(status)
	var cat model.Category
	if category != "" {
		cat = parseCategory(category)
	}
	var out []model.MatchRecord
	for _, m := range matches {
		if court > 0 && m.Court != court {
			continue
		}
		if status != "" && string(aggregator.StatusOf(m)) != status {
			continue
		}
		if cat != "" && m.Category != cat {
			continue
		}
		out = append(out, m)
	}
	return out
}

func runRounds(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	matches := filterMatches(t.Matches(0), roundsCourt, roundsStatus, roundsType)
	if len(matches) == 0 {
		fmt.Fprintln(os.Stderr, "No matches match the given filters.")
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].Court < matches[j].Court
	})

	round := 0
	var batch []model.MatchRecord
	flush := func() {
		if len(batch) == 0 {
			return
		}
		fmt.Fprintf(os.Stdout, "Round %d\n", round)
		report.PrintMatchList(os.Stdout, batch)
		fmt.Fprintln(os.Stdout)
		batch = batch[:0]
	}
	for _, m := range matches {
		if m.Round != round {
			flush()
			round = m.Round
		}
		batch = append(batch, m)
	}
	flush()
	return nil
}
