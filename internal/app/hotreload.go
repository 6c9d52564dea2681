package app

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// HotReloader polls the running executable and reports once when a newer
// build replaces it. Used during development behind --hot-reload.
type HotReloader struct {
	execPath string
	baseline time.Time
	interval time.Duration
}

// NewHotReloader watches the current executable.
func NewHotReloader(interval time.Duration) (*HotReloader, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, errors.Wrap(err, "locate executable")
	}
	// go build replaces the file behind a symlink, so watch the target.
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}
	info, err := os.Stat(execPath)
	if err != nil {
		return nil, errors.Wrap(err, "stat executable")
	}
	return &HotReloader{execPath: execPath, baseline: info.ModTime(), interval: interval}, nil
}

// ExecPath returns the watched executable.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// Watch blocks until the executable changes or ctx is done. It reports
// whether a newer build was found.
func (h *HotReloader) Watch(ctx context.Context) bool {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if info, err := os.Stat(h.execPath); err == nil && info.ModTime().After(h.baseline) {
				log.Infof("newer build of %s detected", h.execPath)
				return true
			}
		}
	}
}

// ResetBaseline accepts the current build so Watch stops reporting it.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.baseline = info.ModTime()
	}
}

// Restart replaces the process with the new build, keeping arguments and
// environment. It does not return on success.
func (h *HotReloader) Restart() error {
	return errors.Wrap(syscall.Exec(h.execPath, os.Args, os.Environ()), "restart")
}
