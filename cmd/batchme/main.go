// Command batchme generates UPC barcode images in batch from a list of
// numeric codes supplied on standard input.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"batchme/internal/cli"
	"batchme/internal/config"
	"batchme/pkg/version"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run executes the root command with interrupt-aware context cancellation.
// Ctrl+C stops dispatching new items; in-flight items finish and no partial
// image files are left behind.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer config.CloseLogFile()

	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}
