package main

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/logger"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	GroupID: "sync",
	Short:   "Fetch every shared list once",
	Long: `Fetch the tag list and the tasks and activity of every shared tag.

Without --manual a list fetched less than five minutes ago is skipped and
only changes since the last fetch are requested. With --manual every list
is fetched in full and local rows the server no longer reports are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		manual, _ := cmd.Flags().GetBool("manual")

		if err := app.Sync(cmd.Context(), manual); err != nil {
			return err
		}

		ui.Success("Sync finished")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:     "run",
	GroupID: "sync",
	Short:   "Push local changes and refresh lists until interrupted",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := logger.FromContext(cmd.Context())
		log.Info().Str("func", "runCmd").Msg("sync running, press Ctrl+C to stop")

		return app.Run(cmd.Context())
	},
}

func init() {
	syncCmd.Flags().Bool("manual", false, "ignore the throttle and fetch everything")

	rootCmd.AddCommand(syncCmd, runCmd)
}
