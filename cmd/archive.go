package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/parser"
	"github.com/pable/go-badminton-tracker/internal/report"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Save the current event into the history database",
	Long: `Store the event, its matches and one participation row per player per finished
match in the SQLite archive. Archiving the same scores twice is a no-op.`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

func runArchive(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	roster, err := loadRoster()
	if err != nil {
		return err
	}
	db, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	doc := t.Snapshot()
	hash, err := parser.Hash(doc)
	if err != nil {
		return err
	}
	exists, err := db.EventExists(hash)
	if err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Event %s already archived.\n", hash[:12])
		return nil
	}

	id, err := db.ArchiveEvent(doc, hash, roster, time.Now())
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	log.Info("archived", zap.Int64("event_id", id), zap.String("hash", hash[:12]))

	ev, err := db.GetEvent(fmt.Sprint(id))
	if err != nil {
		return fmt.Errorf("query event: %w", err)
	}
	if ev != nil {
		report.PrintEvents(os.Stdout, []model.EventSummary{*ev})
	}
	return nil
}
