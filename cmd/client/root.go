package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/client"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/tui"
)

// noAppAnnotation marks commands that run without local storage.
const noAppAnnotation = "no-app"

var (
	flagValues *config.FlagValues
	app        *client.App
	ui         = tui.New(os.Stdout, os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "tasksync",
	Short: "Shared task lists that sync with the server",
	Long: `tasksync keeps a local task database and syncs it with the server.

Local changes are pushed as they are made when you are signed in.
Lists are fetched by "sync" and, every few minutes, by "run".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[noAppAnnotation] == "true" {
			return nil
		}
		return initApp(cmd)
	},
}

func init() {
	flagValues = config.RegisterClientFlags(rootCmd.PersistentFlags())

	rootCmd.AddGroup(
		&cobra.Group{ID: "tasks", Title: "Tasks and tags:"},
		&cobra.Group{ID: "sync", Title: "Account and sync:"},
	)
}

// initApp loads the configuration and wires the client. The command
// context gets the client logger so repositories log through it.
func initApp(cmd *cobra.Command) error {
	cfg, err := config.GetClientConfig(flagValues)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewClientLogger("tasksync", cfg.Log)
	ctx := log.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	invoker, err := adapter.NewHTTPInvoker(cfg.Adapter, cfg.App, log)
	if err != nil {
		return err
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}

	services := service.NewClientServices(storages, invoker, ui, *cfg, log)
	if app, err = client.NewApp(services, storages, log); err != nil {
		storages.Close()
		return err
	}

	log.Debug().Str("func", "initApp").Str("command", cmd.CommandPath()).Msg("client initialised")
	return nil
}
