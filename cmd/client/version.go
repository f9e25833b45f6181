package main

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/models"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print build information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noAppAnnotation: "true"},
	Run: func(*cobra.Command, []string) {
		ui.BuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
