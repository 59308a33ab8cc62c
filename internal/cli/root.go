// Package cli wires the cobra command surface around the batch core. It owns
// everything the core does not: flag parsing, stdin line production, logging
// setup, and presentation of the per-item outcome report.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root cobra command for the batchme CLI. It wires up
// logging and the generate subcommand.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "batchme",
		Short:   "Batch UPC barcode generator",
		Long:    "BatchMe: generate scannable UPC-A and UPC-E barcode images from a list of codes",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a YAML config file")
	cmd.AddCommand(NewGenerateCmd())

	return cmd
}

const rootCmdExample = `  # Generate barcodes from a file of UPC codes, one per line
  batchme generate < upcs.txt

  # Paste codes interactively, end with Ctrl+D
  batchme generate

  # Custom output directory and larger bars
  batchme generate --output ./images --module-width 3 --bar-height 160 < upcs.txt`
