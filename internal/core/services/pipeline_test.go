package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/storage/memory"
	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driving"
	"github.com/docshelf-labs/docshelf-cli/internal/parsers"
)

// stubGateway answers every prompt with a fixed response.
type stubGateway struct {
	response     string
	generateErr  error
	availableErr error
	calls        int
}

func (g *stubGateway) EnsureAvailable(context.Context) error { return g.availableErr }
func (g *stubGateway) ModelName() string                     { return "stub" }
func (g *stubGateway) Shutdown() error                       { return nil }

func (g *stubGateway) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	if g.generateErr != nil {
		return "", g.generateErr
	}
	return g.response, nil
}

// stubExtractor serves the raw file bytes as text, failing for configured
// paths.
type stubExtractor struct {
	failFor map[string]bool
}

func (e *stubExtractor) Extract(_ context.Context, path string, maxBytes int) (string, error) {
	if e.failFor[filepath.Base(path)] {
		return "", fmt.Errorf("%w: stubbed", domain.ErrUnreadableSource)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableSource, err)
	}
	if len(data) > maxBytes {
		data = data[:maxBytes]
	}
	return string(data), nil
}

// stubLock counts acquisitions and can refuse them.
type stubLock struct {
	acquireErr error
	held       bool
}

func (l *stubLock) Acquire() error {
	if l.acquireErr != nil {
		return l.acquireErr
	}
	l.held = true
	return nil
}

func (l *stubLock) Release() error {
	l.held = false
	return nil
}

// stubExporter records what was exported.
type stubExporter struct {
	exports int
	last    []domain.DocumentRecord
}

func (e *stubExporter) Export(_ context.Context, records []domain.DocumentRecord) error {
	e.exports++
	e.last = records
	return nil
}

// harness bundles a pipeline over a temp source directory.
type harness struct {
	dir      string
	gateway  *stubGateway
	store    *memory.StateStore
	exporter *stubExporter
	lock     *stubLock
	pipeline *Pipeline
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		dir:      t.TempDir(),
		gateway:  &stubGateway{response: `{"title": "Extracted Title", "summary": "A perfectly reasonable summary of the document contents.", "category": "AI", "difficulty": "Beginner", "keywords": ["ai"]}`},
		store:    memory.NewStateStore(),
		exporter: &stubExporter{},
		lock:     &stubLock{},
	}
	h.rebuild(t, nil)
	return h
}

// rebuild recreates the pipeline, applying overrides to the config first.
func (h *harness) rebuild(t *testing.T, mutate func(*PipelineConfig)) {
	t.Helper()
	cfg := PipelineConfig{
		Fingerprinter: NewFingerprinter(h.dir, nil),
		Detector:      NewChangeDetector(),
		Extractor:     &stubExtractor{failFor: map[string]bool{}},
		Gateway:       h.gateway,
		Chain:         NewParserChain(parsers.DefaultChain()),
		Validator:     NewValidator(),
		Store:         h.store,
		Exporter:      h.exporter,
		Lock:          h.lock,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.pipeline = NewPipeline(cfg)
}

func (h *harness) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, name), []byte(content), 0644))
}

func (h *harness) run(t *testing.T, opts driving.RunOptions) *domain.RunReport {
	t.Helper()
	report, err := h.pipeline.Run(context.Background(), opts)
	require.NoError(t, err)
	return report
}

func TestRunProcessesNewFiles(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "first document")
	h.write(t, "b.txt", "second document")

	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 2, report.AIAssisted)
	assert.Zero(t, report.Fallback)
	assert.NotEmpty(t, report.RunID)

	records, err := h.store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Extracted Title", records[0].Title)
	assert.Equal(t, domain.CategoryAI, records[0].Category)

	manifest, err := h.store.Manifest(context.Background())
	require.NoError(t, err)
	assert.Len(t, manifest, 2)

	// One export per commit.
	assert.Equal(t, 2, h.exporter.exports)
	assert.Len(t, h.exporter.last, 2)
	assert.False(t, h.lock.held)
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "document")
	h.run(t, driving.RunOptions{})

	second := h.run(t, driving.RunOptions{})

	assert.Zero(t, second.Processed)
	assert.Zero(t, second.Removed)
	assert.Equal(t, 1, h.gateway.calls)
}

func TestRunReprocessesOnlyChangedFile(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "original a")
	h.write(t, "b.txt", "original b")
	h.run(t, driving.RunOptions{})
	h.gateway.calls = 0

	h.write(t, "a.txt", "edited a")
	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, h.gateway.calls)
}

func TestRunNewFileNextToUnchangedFile(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "stable contents")
	h.run(t, driving.RunOptions{})

	before, err := h.store.Manifest(context.Background())
	require.NoError(t, err)
	aHash := before["a.txt"].ContentHash

	h.gateway.calls = 0
	h.write(t, "b.txt", "brand new")
	report := h.run(t, driving.RunOptions{})

	// a.txt must not touch the model; b.txt gets exactly one call.
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, h.gateway.calls)

	records, err := h.store.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	after, err := h.store.Manifest(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, aHash, after["a.txt"].ContentHash)
	assert.NotEmpty(t, after["b.txt"].ContentHash)
}

func TestRunRemovesDeletedFiles(t *testing.T) {
	h := newHarness(t)
	h.write(t, "keep.txt", "kept")
	h.write(t, "drop.txt", "dropped")
	h.run(t, driving.RunOptions{})

	require.NoError(t, os.Remove(filepath.Join(h.dir, "drop.txt")))
	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 1, report.Removed)
	records, err := h.store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep.txt", records[0].Filename)

	manifest, err := h.store.Manifest(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, manifest, "drop.txt")
}

func TestRunForceReprocessesEverything(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "document")
	h.run(t, driving.RunOptions{})
	h.gateway.calls = 0

	report := h.run(t, driving.RunOptions{Force: true})

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, h.gateway.calls)
}

func TestRunModelUnavailableFallsBackForEveryFile(t *testing.T) {
	h := newHarness(t)
	h.gateway.availableErr = domain.ErrModelUnavailable
	h.write(t, "machine_learning_intro.txt", "text")

	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Fallback)
	assert.Zero(t, report.AIAssisted)
	assert.Zero(t, h.gateway.calls)

	records, err := h.store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.CategoryMachineLearning, records[0].Category)
	assert.True(t, records[0].Difficulty.Valid())
}

func TestRunModelErrorFallsBack(t *testing.T) {
	h := newHarness(t)
	h.gateway.generateErr = domain.ErrModelTimeout
	h.write(t, "a.txt", "document")

	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Fallback)
}

func TestRunGarbageResponseFallsBack(t *testing.T) {
	h := newHarness(t)
	h.gateway.response = "I am sorry, I cannot produce metadata for this."
	h.write(t, "business_report.txt", "quarterly numbers")

	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Fallback)

	records, err := h.store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.CategoryBusiness, records[0].Category)
}

func TestRunSkipsUnreadableSource(t *testing.T) {
	h := newHarness(t)
	h.rebuild(t, func(cfg *PipelineConfig) {
		cfg.Extractor = &stubExtractor{failFor: map[string]bool{"broken.txt": true}}
	})
	h.write(t, "broken.txt", "unextractable")
	h.write(t, "fine.txt", "extractable")

	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Skipped)

	// The skipped file stays out of the manifest so a later run retries it.
	manifest, err := h.store.Manifest(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, manifest, "broken.txt")
	assert.Contains(t, manifest, "fine.txt")
}

func TestRunCommitFailureHaltsRun(t *testing.T) {
	h := newHarness(t)
	h.store.CommitErr = errors.New("database locked")
	h.write(t, "a.txt", "document")

	_, err := h.pipeline.Run(context.Background(), driving.RunOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistenceWrite))
	assert.False(t, h.lock.held)
}

func TestRunRefusedWhenLockHeld(t *testing.T) {
	h := newHarness(t)
	h.lock.acquireErr = domain.ErrRunInProgress

	_, err := h.pipeline.Run(context.Background(), driving.RunOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRunInProgress))
}

func TestRunInterruptedRunResumes(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "first")
	h.write(t, "b.txt", "second")

	// First pass dies after committing a.txt: the second commit fails.
	h.store.FailOnCommit = 2
	_, err := h.pipeline.Run(context.Background(), driving.RunOptions{})
	require.Error(t, err)

	manifest, err := h.store.Manifest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, manifest, "a.txt")
	assert.NotContains(t, manifest, "b.txt")

	// Second pass picks up exactly the unfinished file.
	h.store.FailOnCommit = 0
	h.gateway.calls = 0
	report := h.run(t, driving.RunOptions{})

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, h.gateway.calls)
	records, recErr := h.store.Records(context.Background())
	require.NoError(t, recErr)
	assert.Len(t, records, 2)
}

func TestRunStopsWhenBudgetTooSmall(t *testing.T) {
	h := newHarness(t)
	h.rebuild(t, func(cfg *PipelineConfig) {
		cfg.FileReserve = time.Hour
	})
	h.write(t, "a.txt", "document")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := h.pipeline.Run(ctx, driving.RunOptions{})

	require.NoError(t, err)
	assert.True(t, report.Interrupted)
	assert.Zero(t, report.Processed)
}

func TestRunWithoutDeadlineNeverInterrupted(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "document")

	report := h.run(t, driving.RunOptions{})

	assert.False(t, report.Interrupted)
	assert.Equal(t, 1, report.Processed)
}

func TestRunEmptySourceDirectory(t *testing.T) {
	h := newHarness(t)

	report := h.run(t, driving.RunOptions{})

	assert.Zero(t, report.Processed)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Removed)
}

func TestStatusIdleAfterRun(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.txt", "document")
	h.run(t, driving.RunOptions{})

	status := h.pipeline.Status()
	assert.False(t, status.Running)
	assert.Empty(t, status.Current)
}
