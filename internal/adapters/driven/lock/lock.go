// Package lock provides a file-based run lock.
//
// One pipeline run at a time: concurrent runs would race on the library
// state and double-drive the model service. The lock file records the
// holder's pid so a lock left behind by a crashed process can be detected
// and reclaimed.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
)

// FileLock is a pid-stamped lock file guarding pipeline runs.
type FileLock struct {
	path string
}

var _ driven.RunLock = (*FileLock)(nil)

// New creates a run lock at the given data directory.
func New(dataDir string) *FileLock {
	return &FileLock{path: filepath.Join(dataDir, "run.lock")}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Acquire takes the lock, reclaiming it when the recorded holder is no
// longer alive. Returns ErrRunInProgress when another live run holds it.
func (l *FileLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("creating lock directory: %w", err)
	}

	if err := l.tryCreate(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("creating lock file: %w", err)
	}

	pid, ok := l.holderPid()
	if ok && processAlive(pid) {
		return fmt.Errorf("%w: held by pid %d", domain.ErrRunInProgress, pid)
	}

	logger.Warn("Reclaiming stale run lock at %s", l.path)
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale lock: %w", err)
	}
	if err := l.tryCreate(); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: lock re-acquired by another run", domain.ErrRunInProgress)
		}
		return fmt.Errorf("creating lock file: %w", err)
	}
	return nil
}

// Release removes the lock file.
func (l *FileLock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}

// tryCreate writes the lock file exclusively with this process's pid.
func (l *FileLock) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// holderPid reads the pid recorded in an existing lock file.
func (l *FileLock) holderPid() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive reports whether a process with the given pid exists.
func processAlive(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}
