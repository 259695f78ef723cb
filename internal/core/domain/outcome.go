package domain

// OutcomeKind discriminates the result of processing one file.
type OutcomeKind int

const (
	// OutcomeSuccess means the model response parsed into a record.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeFallback means the record was built by the deterministic
	// filename heuristic after the model or parser chain failed.
	OutcomeFallback

	// OutcomeSkipped means the source file could not be read; no record
	// was produced and the manifest was left untouched.
	OutcomeSkipped

	// OutcomeFailed means the commit itself failed. This is the only
	// outcome that halts a run.
	OutcomeFailed
)

// String returns the outcome kind name for logs and reports.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFallback:
		return "fallback"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of driving one file through the pipeline.
// Outcomes are never silently dropped; every file ends in exactly one.
type Outcome struct {
	// Kind discriminates the variant.
	Kind OutcomeKind

	// Path is the normalized path of the file this outcome belongs to.
	Path string

	// Record is populated for Success and Fallback outcomes.
	Record *DocumentRecord

	// Reason explains Fallback and Skipped outcomes.
	Reason string

	// Err is populated for Failed outcomes.
	Err error
}

// RunReport summarises one pipeline run for the caller and the logs.
type RunReport struct {
	// RunID identifies this invocation in logs.
	RunID string

	// Processed counts files that reached a committed record.
	Processed int

	// AIAssisted counts records built from a parsed model response.
	AIAssisted int

	// Fallback counts records built by the filename heuristic.
	Fallback int

	// Skipped counts unreadable files.
	Skipped int

	// Removed counts garbage-collected record/manifest pairs.
	Removed int

	// Interrupted is true when the run stopped early because the
	// remaining time budget was insufficient for another file.
	Interrupted bool
}
