package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/report"
)

var (
	historyLimit  int
	historyDelete bool
)

var historyCmd = &cobra.Command{
	Use:   "history [event-id | hash-prefix]",
	Short: "List archived events, or show one of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of events to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyDelete, "delete", false, "remove the given event from the archive")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 0 {
		if historyDelete {
			return fmt.Errorf("--delete needs an event id or hash prefix")
		}
		events, err := db.ListEvents(historyLimit)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(os.Stdout, "No events archived yet. Run 'bmtrack archive' after an event.")
			return nil
		}
		report.PrintEvents(os.Stdout, events)
		return nil
	}

	ev, err := db.GetEvent(args[0])
	if err != nil {
		return fmt.Errorf("query event: %w", err)
	}
	if ev == nil {
		fmt.Fprintf(os.Stderr, "No archived event matches %q\n", args[0])
		return nil
	}
	if historyDelete {
		if err := db.DeleteEvent(ev.ID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted event %d (%s)\n", ev.ID, ev.EventName)
		return nil
	}

	matches, err := db.GetEventMatches(ev.ID)
	if err != nil {
		return fmt.Errorf("query matches: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n%s  |  Date: %s  |  Courts: %d  |  Finished: %d/%d  |  Hash: %s\n\n",
		ev.EventName, ev.EventDate, ev.CourtCount, ev.Finished, ev.TotalMatches, ev.Hash[:12])
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
