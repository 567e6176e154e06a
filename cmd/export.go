package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/parser"
)

var (
	exportOut  string
	exportZstd bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the event as a JSON file",
	Long: `Write the whole event (name, court count, matches and player statistics) as
indented JSON. The file can be re-imported with 'bmtrack import' or served as a
bootstrap data.json. With --zstd the output is Zstandard-compressed.

The default file name is derived from the event name, e.g.
  2026_马年首秀战_比分数据.json

Use --out - to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default derived from the event name)")
	exportCmd.Flags().BoolVar(&exportZstd, "zstd", false, "compress with zstd")
}

func runExport(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	opts := parser.Options{Compress: exportZstd}

	if exportOut == "-" {
		return t.Export(os.Stdout, opts)
	}
	out := exportOut
	if out == "" {
		out = parser.ExportFileName(t.Snapshot().EventName, exportZstd)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := t.Export(f, opts); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	fmt.Fprintf(os.Stdout, "Exported %d matches to %s\n", len(t.Snapshot().Matches), out)
	return nil
}
