package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/go-badminton-tracker/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the event as JSON over HTTP",
	Long: `Expose the current event over HTTP. GET /data.json returns the whole document in
the export format; /api accepts score edits and serves statistics and analysis.
Stops cleanly on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		return server.New(t, log).ListenAndServe(cmd.Context(), serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}
