package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/report"
)

var (
	posterOut   string
	posterPlain bool
	posterStyle string
)

var posterCmd = &cobra.Command{
	Use:   "poster",
	Short: "Render a shareable results poster",
	Long: `Build a markdown poster with the headline counts, every match by court, the most
active players and the best records. It is rendered for the terminal unless --plain
is set; --out writes the raw markdown to a file instead.`,
	Args: cobra.NoArgs,
	RunE: runPoster,
}

func init() {
	posterCmd.Flags().StringVarP(&posterOut, "out", "o", "", "write markdown to this file")
	posterCmd.Flags().BoolVar(&posterPlain, "plain", false, "print raw markdown")
	posterCmd.Flags().StringVar(&posterStyle, "style", "dark", "glamour style: dark, light, notty, ...")
}

func runPoster(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	md := report.Poster(t.Snapshot())

	if posterOut != "" {
		if err := os.WriteFile(posterOut, []byte(md), 0644); err != nil {
			return fmt.Errorf("write poster: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", posterOut)
		return nil
	}
	if posterPlain {
		fmt.Fprint(os.Stdout, md)
		return nil
	}
	out, err := report.RenderMarkdown(md, posterStyle)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}
