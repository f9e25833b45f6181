package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if app != nil {
		err = errors.Join(err, app.Close())
	}
	if err != nil {
		ui.Error(err)
		os.Exit(1)
	}
}
