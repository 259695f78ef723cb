package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driving"
)

var (
	processSourceDir  string
	processForce      bool
	processMaxRuntime time.Duration
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process new and changed documents",
	Long: `Scans the source directory, processes files that are new or whose
content changed since the last run, and removes library entries for files
that disappeared. Unchanged files are skipped.

Use --force to reprocess every file regardless of its recorded state.
Use --max-runtime to bound the run; processing stops cleanly between
files when the budget would not cover another one.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processSourceDir, "source", "s", "", "source directory to scan (default: configured pipeline.source_dir or ./docs)")
	processCmd.Flags().BoolVarP(&processForce, "force", "f", false, "reprocess all files regardless of recorded state")
	processCmd.Flags().DurationVar(&processMaxRuntime, "max-runtime", 0, "stop cleanly when this budget is about to run out (0 = unlimited)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	if pipelineFactory == nil {
		return errors.New("pipeline not configured")
	}

	sourceDir := resolveSourceDir(processSourceDir)
	pipeline, cleanup, err := pipelineFactory(sourceDir)
	if err != nil {
		return fmt.Errorf("setting up pipeline: %w", err)
	}
	defer cleanup()

	ctx := context.Background()
	if processMaxRuntime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, processMaxRuntime)
		defer cancel()
	}

	force := processForce || forceFromEnv()
	cmd.Printf("Processing documents in %s...\n", sourceDir)

	report, err := pipeline.Run(ctx, driving.RunOptions{Force: force})
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			return errors.New("another run is already in progress")
		}
		return fmt.Errorf("run failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

// forceFromEnv honours the FORCE_REPROCESS environment variable.
func forceFromEnv() bool {
	v, ok := os.LookupEnv("FORCE_REPROCESS")
	if !ok {
		return false
	}
	force, err := strconv.ParseBool(v)
	return err == nil && force
}

// printReport writes the run summary.
func printReport(cmd *cobra.Command, report *domain.RunReport) {
	cmd.Printf("Processed %d document(s): %d AI-assisted, %d fallback\n",
		report.Processed, report.AIAssisted, report.Fallback)
	if report.Skipped > 0 {
		cmd.Printf("Skipped %d file(s)\n", report.Skipped)
	}
	if report.Removed > 0 {
		cmd.Printf("Removed %d stale library entr%s\n", report.Removed, plural(report.Removed, "y", "ies"))
	}
	if report.Interrupted {
		cmd.Println("Run stopped before the budget ran out; re-run to continue.")
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
