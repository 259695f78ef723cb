package driving

import (
	"context"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// PipelineOrchestrator coordinates one ingestion run over the source folder.
type PipelineOrchestrator interface {
	// Run executes one pipeline pass: change detection, per-file
	// extraction and per-file commit. It honours ctx's deadline by
	// stopping cleanly between files, and returns a report even when
	// interrupted early.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)

	// Status returns progress for the currently running pass, if any.
	Status() *Status
}

// RunOptions configures a single pipeline run.
type RunOptions struct {
	// Force reprocesses every file regardless of the manifest.
	Force bool
}

// Status represents the current state of a pipeline run.
type Status struct {
	// Running indicates whether a run is in progress.
	Running bool

	// Queued is the number of files selected for processing.
	Queued int

	// Completed is the number of files committed so far.
	Completed int

	// Current is the path being processed, empty between files.
	Current string
}
