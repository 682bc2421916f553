package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// CleanupPartialFiles removes temp files left by an interrupted
// WriteFileAtomic and reports each one to w.
func CleanupPartialFiles(outputDir string, w io.Writer) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, PartialSuffix) {
			continue
		}

		full := filepath.Join(outputDir, name)
		if err := os.Remove(full); err != nil {
			_, _ = fmt.Fprintf(w, "Error cleaning up %s: %v\n", full, err)
		} else {
			_, _ = fmt.Fprintf(w, "Removed %s\n", full)
		}
	}
}

// RemoveIfEmpty deletes dir when nothing was written to it.
func RemoveIfEmpty(dir string, w io.Writer) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	if len(entries) == 0 {
		if err := os.Remove(dir); err == nil {
			_, _ = fmt.Fprintf(w, "Removed empty output folder: %s\n", dir)
		}
	}
}
