package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driving"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineOrchestrator = (*Pipeline)(nil)

// Default run parameters.
const (
	// DefaultFileReserve is the time budget that must remain before the
	// pipeline starts another file. Generation on a cold local model can
	// take minutes, so the reserve is generous.
	DefaultFileReserve = 4 * time.Minute

	// DefaultMaxTextBytes bounds how much source text is extracted per file.
	DefaultMaxTextBytes = 64 * 1024
)

// PipelineConfig wires the orchestrator's collaborators.
type PipelineConfig struct {
	Fingerprinter *Fingerprinter
	Detector      *ChangeDetector
	Extractor     driven.TextExtractor
	Gateway       driven.ModelGateway
	Chain         *ParserChain
	Validator     *Validator
	Store         driven.StateStore
	Exporter      driven.SiteExporter
	Lock          driven.RunLock

	// FileReserve overrides DefaultFileReserve when positive.
	FileReserve time.Duration

	// MaxTextBytes overrides DefaultMaxTextBytes when positive.
	MaxTextBytes int
}

// Pipeline drives every selected file through extraction, model call,
// parsing, validation and commit, one file at a time. The model service is
// a shared single-consumer resource and commits are strictly ordered, so
// there is exactly one logical worker.
type Pipeline struct {
	fingerprinter *Fingerprinter
	detector      *ChangeDetector
	extractor     driven.TextExtractor
	gateway       driven.ModelGateway
	chain         *ParserChain
	validator     *Validator
	store         driven.StateStore
	exporter      driven.SiteExporter
	lock          driven.RunLock
	fileReserve   time.Duration
	maxTextBytes  int

	mu     sync.RWMutex
	status driving.Status
}

// NewPipeline creates the extraction orchestrator.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.FileReserve <= 0 {
		cfg.FileReserve = DefaultFileReserve
	}
	if cfg.MaxTextBytes <= 0 {
		cfg.MaxTextBytes = DefaultMaxTextBytes
	}
	return &Pipeline{
		fingerprinter: cfg.Fingerprinter,
		detector:      cfg.Detector,
		extractor:     cfg.Extractor,
		gateway:       cfg.Gateway,
		chain:         cfg.Chain,
		validator:     cfg.Validator,
		store:         cfg.Store,
		exporter:      cfg.Exporter,
		lock:          cfg.Lock,
		fileReserve:   cfg.FileReserve,
		maxTextBytes:  cfg.MaxTextBytes,
	}
}

// Run executes one pipeline pass.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (p *Pipeline) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	if err := p.lock.Acquire(); err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() {
		if err := p.lock.Release(); err != nil {
			logger.Warn("Release run lock: %v", err)
		}
	}()

	report := &domain.RunReport{RunID: uuid.New().String()}
	logger.Info("Starting pipeline run %s", report.RunID)

	// An unavailable model never fails the run: every file still ends in
	// a committed record via the heuristic fallback.
	modelUp := true
	if err := p.gateway.EnsureAvailable(ctx); err != nil {
		logger.Warn("Model service unavailable for this run: %v", err)
		modelUp = false
	}

	// 1. Fingerprint the source folder and partition against the manifest.
	states, err := p.fingerprinter.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan source directory: %w", err)
	}
	manifest, err := p.store.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	changes := p.detector.Detect(states, manifest, opts.Force)
	queue := changes.Queue()

	logger.Info("Change detection: %d new, %d modified, %d unchanged, %d deleted, %d unreadable",
		len(changes.New), len(changes.Modified), len(changes.Unchanged),
		len(changes.Deleted), len(changes.Unreadable))

	p.setStatus(driving.Status{Running: true, Queued: len(queue)})
	defer p.setStatus(driving.Status{})

	report.Skipped = len(changes.Unreadable)
	for _, state := range changes.Unreadable {
		logger.Warn("Skipping unreadable source %s: %v", state.Path, state.ReadErr)
	}

	// 2. Garbage-collect records whose source file disappeared.
	for _, entry := range changes.Deleted {
		if err := p.remove(ctx, entry); err != nil {
			return report, err
		}
		report.Removed++
	}

	// 3. Process the queue in deterministic path order, committing after
	// every file so an abrupt termination loses at most the file in flight.
	for i, state := range queue {
		if !p.budgetAllows(ctx) {
			logger.Warn("Time budget exhausted after %d of %d files; stopping cleanly", i, len(queue))
			report.Interrupted = true
			break
		}

		p.setCurrent(state.Path, i)
		outcome := p.processOne(ctx, state, modelUp)

		switch outcome.Kind {
		case domain.OutcomeSkipped:
			logger.Warn("Skipping %s: %s", state.Path, outcome.Reason)
			report.Skipped++
			continue
		case domain.OutcomeSuccess:
			report.AIAssisted++
		case domain.OutcomeFallback:
			logger.Warn("Heuristic fallback for %s: %s", state.Path, outcome.Reason)
			report.Fallback++
		case domain.OutcomeFailed:
			// Only the commit path produces Failed; handled below.
		}

		if err := p.commit(ctx, *outcome.Record, state); err != nil {
			return report, err
		}
		report.Processed++
	}

	logger.Info("Run %s complete: %d processed (%d AI, %d fallback), %d skipped, %d removed",
		report.RunID, report.Processed, report.AIAssisted, report.Fallback,
		report.Skipped, report.Removed)
	return report, nil
}

// Status returns progress for the currently running pass.
func (p *Pipeline) Status() *driving.Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	status := p.status
	return &status
}

// processOne drives a single file through the state machine:
// extract, prompt, model call, parse, validate. All model and parse
// failures route through the fallback path to a committable record; only
// an unreadable source ends without one.
func (p *Pipeline) processOne(ctx context.Context, state domain.FileState, modelUp bool) domain.Outcome {
	text, err := p.extractor.Extract(ctx, state.AbsPath, p.maxTextBytes)
	if err != nil {
		return domain.Outcome{
			Kind:   domain.OutcomeSkipped,
			Path:   state.Path,
			Reason: err.Error(),
		}
	}

	filename := baseName(state.Path)

	// The model call may fail outright; the parser chain still runs on a
	// synthetic empty response so every file exits through the same door.
	raw := ""
	callErr := error(nil)
	if modelUp {
		raw, callErr = p.gateway.Generate(ctx, BuildExtractionPrompt(filename, text))
		if callErr != nil {
			logger.Warn("Model call failed for %s: %v", state.Path, callErr)
		}
	}

	fields, strategy, parseErr := p.chain.Parse(raw)
	if parseErr != nil {
		fields = FallbackRecord(filename)
		record := p.validator.Validate(fields, state)
		return domain.Outcome{
			Kind:   domain.OutcomeFallback,
			Path:   state.Path,
			Record: &record,
			Reason: fallbackReason(modelUp, callErr, parseErr),
		}
	}

	record := p.validator.Validate(fields, state)
	logger.Debug("Parsed %s via %s strategy", state.Path, strategy)
	return domain.Outcome{
		Kind:   domain.OutcomeSuccess,
		Path:   state.Path,
		Record: &record,
		Reason: strategy,
	}
}

// commit durably writes the record/manifest pair, then republishes the
// export. Either failure halts the run: persistence is the one place a
// failure may stop everything, and the store is still consistent because
// the transaction already rolled back or completed.
func (p *Pipeline) commit(ctx context.Context, record domain.DocumentRecord, state domain.FileState) error {
	entry := domain.ManifestEntry{
		Path:        state.Path,
		ContentHash: state.ContentHash,
		ProcessedAt: time.Now(),
	}
	if err := p.store.Commit(ctx, record, entry); err != nil {
		return fmt.Errorf("%w: commit %s: %v", domain.ErrPersistenceWrite, state.Path, err)
	}
	if err := p.export(ctx); err != nil {
		return err
	}
	logger.Debug("Committed %s (%s)", state.Path, record.ID)
	return nil
}

// remove garbage-collects a record/manifest pair whose source disappeared.
func (p *Pipeline) remove(ctx context.Context, entry domain.ManifestEntry) error {
	id := domain.RecordID(entry.Path)
	if err := p.store.Remove(ctx, id, entry.Path); err != nil {
		return fmt.Errorf("%w: remove %s: %v", domain.ErrPersistenceWrite, entry.Path, err)
	}
	if err := p.export(ctx); err != nil {
		return err
	}
	logger.Info("Removed record for deleted source %s", entry.Path)
	return nil
}

// export republishes the full collection for downstream consumers.
func (p *Pipeline) export(ctx context.Context) error {
	records, err := p.store.Records(ctx)
	if err != nil {
		return fmt.Errorf("%w: read records for export: %v", domain.ErrPersistenceWrite, err)
	}
	if err := p.exporter.Export(ctx, records); err != nil {
		return fmt.Errorf("%w: export: %v", domain.ErrPersistenceWrite, err)
	}
	return nil
}

// budgetAllows reports whether enough of the external deadline remains to
// safely start another file.
func (p *Pipeline) budgetAllows(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return true
	}
	return time.Until(deadline) >= p.fileReserve
}

func (p *Pipeline) setStatus(status driving.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *Pipeline) setCurrent(path string, completed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Current = path
	p.status.Completed = completed
}

// fallbackReason summarises why a file degraded to the heuristic record.
func fallbackReason(modelUp bool, callErr, parseErr error) string {
	switch {
	case !modelUp:
		return "model service unavailable"
	case errors.Is(callErr, domain.ErrModelTimeout):
		return "model request timed out"
	case callErr != nil:
		return "model call failed"
	default:
		return parseErr.Error()
	}
}
