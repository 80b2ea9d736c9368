package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrNotRunning is returned by Running when no live daemon owns the file
var ErrNotRunning = errors.New("daemon is not running")

// PIDFile enforces a single daemon instance per pid path
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID, failing if a live process already owns
// the file. Stale or unreadable files are replaced.
func (p *PIDFile) Acquire() error {
	if pid, err := p.Running(); err == nil {
		return fmt.Errorf("daemon is already running (PID %d)", pid)
	} else if !errors.Is(err, ErrNotRunning) {
		return err
	}

	data := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(p.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Running returns the PID of the live owner, or ErrNotRunning
func (p *PIDFile) Running() (int, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return 0, ErrNotRunning
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || !isProcessRunning(pid) {
		return 0, ErrNotRunning
	}
	return pid, nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes the PID with signal 0
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	switch err := process.Signal(syscall.Signal(0)); {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true
	default:
		return false
	}
}
