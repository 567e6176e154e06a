package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-badminton-tracker/internal/bootstrap"
	"github.com/pable/go-badminton-tracker/internal/config"
	"github.com/pable/go-badminton-tracker/internal/logging"
	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/state"
	"github.com/pable/go-badminton-tracker/internal/storage"
)

var (
	flags config.Config
	cfg   config.Config
	log   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "bmtrack",
	Short: "Badminton doubles match tracker",
	Long: `Track set scores for a doubles badminton event across several courts,
derive match status and per-player statistics, and archive finished events.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(""); err != nil {
			return err
		}
		cfg = flags.Resolve()
		log = logging.New(logging.Options{Verbose: cfg.Verbose, File: cfg.LogFile})
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.StatePath, "state", "", "path to the event state file (default ~/.bmtrack/state.json)")
	pf.StringVar(&flags.DBPath, "db", "", "path to the SQLite archive (default ~/.bmtrack/archive.db)")
	pf.StringVar(&flags.Bootstrap, "bootstrap", "", "file or URL of a data.json used on first run")
	pf.StringVar(&flags.Roster, "roster", "", `roster JSON {"male":[...],"female":[...]}`)
	pf.StringVar(&flags.LogFile, "log-file", "", "also write JSON logs to this file (rotated)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(posterCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
}

// openTracker loads the event state, bootstrapping it on first run.
func openTracker(ctx context.Context) (*state.Tracker, error) {
	store, err := state.NewFileStore(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	return state.Load(ctx, store, bootstrap.NewClient(), cfg.Bootstrap, log)
}

// openArchive opens the SQLite archive, creating its directory.
func openArchive() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func loadRoster() (model.Roster, error) {
	return config.LoadRoster(cfg.Roster)
}
