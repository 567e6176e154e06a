package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/parser"
	"github.com/pable/go-badminton-tracker/internal/report"
)

var importYes bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the event with an exported JSON file",
	Long: `Load a previously exported file (plain or zstd-compressed). Without --yes the
file is only validated and previewed. Invalid files never touch the current event.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "replace the current event without asking")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	doc, hash, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if !importYes {
		report.PrintEventHeader(os.Stdout, *doc)
		fmt.Fprintf(os.Stderr, "Valid file (hash %s). Re-run with --yes to replace the current event.\n", hash[:12])
		return nil
	}

	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	imported, err := t.Import(f)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d matches.\n", len(imported.Matches))
	report.PrintEventHeader(os.Stdout, imported)
	return nil
}
