// Package main provides the entry point for the configrepo CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrz1836/configrepo/internal/cli"
	"github.com/mrz1836/configrepo/internal/errors"
)

// Set at build time via ldflags.
var (
	version = "dev"     //nolint:gochecknoglobals // Set by ldflags
	commit  = "none"    //nolint:gochecknoglobals // Set by ldflags
	date    = "unknown" //nolint:gochecknoglobals // Set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	cli.CloseLogFile()
	if err != nil {
		message, action := errors.Actionable(err)
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		if message != err.Error() && action != "" {
			_, _ = fmt.Fprintln(os.Stderr, action)
		}
		stop()
		os.Exit(cli.ExitCodeForError(err)) //nolint:gocritic // stop is called explicitly before exit
	}
}
