package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driving"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
)

// watchDebounce batches bursts of filesystem events into one run. Editors
// and file copies fire several events per file.
const watchDebounce = 2 * time.Second

var watchSourceDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source directory and process changes as they land",
	Long: `Runs an initial processing pass, then watches the source directory
and re-runs the pipeline whenever files are added, changed or removed.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchSourceDir, "source", "s", "", "source directory to watch (default: configured pipeline.source_dir or ./docs)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if pipelineFactory == nil {
		return errors.New("pipeline not configured")
	}

	sourceDir := resolveSourceDir(watchSourceDir)
	pipeline, cleanup, err := pipelineFactory(sourceDir)
	if err != nil {
		return fmt.Errorf("setting up pipeline: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", sourceDir)
	if err := runOnce(ctx, cmd, pipeline); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(sourceDir); err != nil {
		return fmt.Errorf("watching %s: %w", sourceDir, err)
	}

	var (
		debounce *time.Timer
		pending  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopping watch.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Filesystem event: %s", event)
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			pending = debounce.C

		case <-pending:
			pending = nil
			if err := runOnce(ctx, cmd, pipeline); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// runOnce executes one pipeline pass and prints its summary. A run that
// finds nothing to do stays quiet.
func runOnce(ctx context.Context, cmd *cobra.Command, pipeline driving.PipelineOrchestrator) error {
	report, err := pipeline.Run(ctx, driving.RunOptions{})
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			logger.Warn("Skipping pass: another run is in progress")
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run failed: %w", err)
	}
	if report.Processed > 0 || report.Removed > 0 || report.Skipped > 0 {
		printReport(cmd, report)
	}
	return nil
}
