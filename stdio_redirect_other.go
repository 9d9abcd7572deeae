//go:build !unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// redirectStdIO swaps os.Stdout and os.Stderr for the STARFIELD_STDIO_LOG
// file. Runtime panics still go to the original stderr.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("stdio log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("stdio log: %w", err)
	}
	_, _ = fmt.Fprintf(f, "--- starfield pid %d started %s ---\n", os.Getpid(), time.Now().Format(time.RFC3339))
	os.Stdout = f
	os.Stderr = f
	return nil
}
