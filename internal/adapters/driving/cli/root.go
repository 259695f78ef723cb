// Package cli provides the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driving"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// PipelineFactory builds a pipeline orchestrator bound to a source
// directory. Construction happens per command invocation because the
// source directory is a flag.
type PipelineFactory func(sourceDir string) (driving.PipelineOrchestrator, func(), error)

// Injected collaborators. main wires these before Execute.
var (
	pipelineFactory PipelineFactory
	stateStore      driven.StateStore
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docshelf",
	Short: "Document library pipeline with AI-assisted metadata extraction",
	Long: `docshelf ingests a folder of documents, extracts structured metadata
with a locally hosted generative model, and maintains a browsable JSON
library for a static site frontend.

Runs are incremental: only new or changed files are processed, and an
interrupted run resumes where it left off.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetPipelineFactory injects the pipeline constructor.
func SetPipelineFactory(f PipelineFactory) {
	pipelineFactory = f
}

// SetStateStore injects the library state store used by read-only commands.
func SetStateStore(s driven.StateStore) {
	stateStore = s
}

// SetConfigStore injects the configuration store.
func SetConfigStore(c driven.ConfigStore) {
	configStore = c
}

// resolveSourceDir picks the source directory: flag value first, then
// configuration, then the conventional default.
func resolveSourceDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configStore != nil {
		if dir := configStore.GetString("pipeline.source_dir"); dir != "" {
			return dir
		}
	}
	return "docs"
}
