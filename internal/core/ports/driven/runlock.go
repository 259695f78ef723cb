package driven

// RunLock provides mutual exclusion across pipeline runs. Two concurrent
// runs over the same data directory would race on the manifest, so the
// orchestrator acquires the lock before any work and releases it after
// the last commit.
type RunLock interface {
	// Acquire takes the lock, returning ErrRunInProgress (wrapped) when
	// another live run holds it.
	Acquire() error

	// Release drops the lock. Releasing an unheld lock is a no-op.
	Release() error
}
