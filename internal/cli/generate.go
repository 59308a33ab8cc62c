package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"batchme/internal/batch"
	"batchme/internal/config"
	"batchme/internal/output"
	"batchme/internal/render"
)

// generateParams holds the flag values for the generate command.
type generateParams struct {
	outputDir   string
	workers     int
	moduleWidth int
	barHeight   int
	quietZone   int
	noText      bool
}

// NewGenerateCmd creates the "generate" subcommand. It reads UPC codes from
// standard input, one per line, and writes one PNG per accepted code into
// the output directory, named <seq>_<code>.png in input order.
//
// Registered flags:
//   - --output/-o: output directory (default from configuration)
//   - --workers: worker-pool size (default: available parallelism)
//   - --module-width: pixel width of one barcode module
//   - --bar-height: bar height in pixels
//   - --quiet-zone: quiet-zone width in modules per side
//   - --no-text: omit the human-readable digit strip
func NewGenerateCmd() *cobra.Command {
	var params generateParams

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate barcode images from UPC codes on standard input",
		Long: `Generate UPC barcode images from a list of codes.

Codes are read from standard input, one per line; blank lines are skipped.
12-digit codes are encoded as UPC-A, 8-digit codes as UPC-E. Each accepted
code becomes one PNG named <seq>_<code>.png, where seq is the 1-based input
position. Invalid codes are reported and skipped without stopping the batch.`,
		Example: generateExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeGenerate(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.outputDir, "output", "o", config.DefaultOutputDir,
		"Directory that receives the generated PNG files")
	cmd.Flags().IntVar(&params.workers, "workers", config.DefaultWorkers(),
		"Worker-pool size for parallel encoding and rendering")
	cmd.Flags().IntVar(&params.moduleWidth, "module-width", config.DefaultModuleWidth,
		"Pixel width of one barcode module")
	cmd.Flags().IntVar(&params.barHeight, "bar-height", config.DefaultBarHeight,
		"Bar height in pixels")
	cmd.Flags().IntVar(&params.quietZone, "quiet-zone", config.DefaultQuietZone,
		"Quiet-zone width in modules on each side")
	cmd.Flags().BoolVar(&params.noText, "no-text", false,
		"Omit the human-readable digit strip beneath the bars")

	return cmd
}

const generateExample = `  # From a file
  batchme generate < upcs.txt

  # Into a specific directory with bigger bars
  batchme generate -o ./images --bar-height 160 < upcs.txt`

// executeGenerate runs the batch: read lines, process, print the report.
func executeGenerate(cmd *cobra.Command, params generateParams) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg, params)

	if isTerminal(os.Stdin) {
		cmd.Println("Paste your UPC numbers below (one per line).")
		cmd.Println("Press Ctrl+D when done.")
		cmd.Println()
	}

	lines, err := readLines(cmd)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	writer, err := output.NewDirWriter(cfg.Output.Dir)
	if err != nil {
		return err
	}

	renderOpts := render.Options{
		ModuleWidth: cfg.Render.ModuleWidth,
		BarHeight:   cfg.Render.BarHeight,
		QuietZone:   cfg.Render.QuietZone,
		HideText:    !cfg.Render.ShowText(),
	}

	orch, err := batch.New(writer, renderOpts, cfg.Batch.WorkerCount())
	if err != nil {
		return err
	}

	// The callback runs from concurrent worker goroutines; serialize the
	// prints so interleaved writes never race on the output streams.
	var printMu sync.Mutex
	orch.WithProgressCallback(func(progress *batch.Progress, item *batch.Item) {
		printMu.Lock()
		defer printMu.Unlock()

		processed, _, _ := progress.Snapshot()
		if item.Written() {
			cmd.Printf("generated %d/%d: %s\n", processed, progress.TotalItems, item.Raw)
			return
		}
		cmd.PrintErrf("error on %q: %v\n", item.Raw, item.Err)
	})

	report := orch.Run(cmd.Context(), lines)

	printSummary(cmd, report, writer.Dir())
	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
// Flags beat the config file, which beats the compiled-in defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, params generateParams) {
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = params.outputDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Batch.Workers = params.workers
	}
	if cmd.Flags().Changed("module-width") {
		cfg.Render.ModuleWidth = params.moduleWidth
	}
	if cmd.Flags().Changed("bar-height") {
		cfg.Render.BarHeight = params.barHeight
	}
	if cmd.Flags().Changed("quiet-zone") {
		cfg.Render.QuietZone = params.quietZone
	}
	if cmd.Flags().Changed("no-text") {
		show := !params.noText
		cfg.Render.Text = &show
	}
}

// readLines collects all input lines from the command's stdin.
func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// printSummary renders the batch report for the user.
func printSummary(cmd *cobra.Command, report *batch.Report, dir string) {
	if report.Empty() {
		cmd.Println("No UPC codes provided.")
		return
	}

	cmd.Println()
	if rejected := report.RejectedTotal(); rejected > 0 {
		cmd.Printf("completed with %d error(s)\n", rejected)

		reasons := make([]string, 0, len(report.Rejected))
		for reason := range report.Rejected {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			cmd.Printf("  %s: %d\n", reason, report.Rejected[reason])
		}
	}
	cmd.Printf("generated %d of %d barcode(s)\n", report.Written, len(report.Items))

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	cmd.Printf("barcodes saved to: %s\n", abs)
}
