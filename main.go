package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	configfile "github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/config/file"
	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/export/jsonfile"
	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/extract"
	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/lock"
	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/model/ollama"
	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driving/cli"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driving"
	"github.com/docshelf-labs/docshelf-cli/internal/core/services"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
	"github.com/docshelf-labs/docshelf-cli/internal/parsers"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// Environment overrides from a local .env file, if present.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore(os.Getenv("DOCSHELF_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}

	dataDir := os.Getenv("DOCSHELF_DATA_DIR")
	if dataDir == "" {
		dataDir = filepath.Join(filepath.Dir(configStore.Path()), "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("initialising state store: %w", err)
	}
	defer store.Close()

	exportPath := configStore.GetString(configfile.KeyExportPath)
	if exportPath == "" {
		exportPath = filepath.Join("frontend", "public", "documents.json")
	}

	gatewayCfg := ollama.Config{
		BaseURL:   firstNonEmpty(os.Getenv("OLLAMA_URL"), configStore.GetString(configfile.KeyModelURL)),
		Model:     firstNonEmpty(os.Getenv("OLLAMA_MODEL"), configStore.GetString(configfile.KeyModelName)),
		AutoStart: true,
	}

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)
	cli.SetStateStore(store)
	cli.SetPipelineFactory(func(sourceDir string) (driving.PipelineOrchestrator, func(), error) {
		gateway := ollama.New(gatewayCfg)
		pipeline := services.NewPipeline(services.PipelineConfig{
			Fingerprinter: services.NewFingerprinter(sourceDir, nil),
			Detector:      services.NewChangeDetector(),
			Extractor:     extract.New(),
			Gateway:       gateway,
			Chain:         services.NewParserChain(parsers.DefaultChain()),
			Validator:     services.NewValidator(),
			Store:         store,
			Exporter:      jsonfile.New(exportPath),
			Lock:          lock.New(dataDir),
		})
		cleanup := func() {
			if err := gateway.Shutdown(); err != nil {
				logger.Warn("Shutting down model service: %v", err)
			}
		}
		return pipeline, cleanup, nil
	})

	return cli.Execute()
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
