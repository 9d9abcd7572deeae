//go:build unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// redirectStdIO points fds 1 and 2 at the STARFIELD_STDIO_LOG file, so
// runtime panics land there while the console is in graphics mode.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := openStdioLog(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, target := range []*os.File{os.Stdout, os.Stderr} {
		if err := unix.Dup2(int(f.Fd()), int(target.Fd())); err != nil {
			return fmt.Errorf("dup2 %s onto %s: %w", path, target.Name(), err)
		}
	}
	return nil
}

func openStdioLog(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("stdio log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("stdio log: %w", err)
	}
	_, _ = fmt.Fprintf(f, "--- starfield pid %d started %s ---\n", os.Getpid(), time.Now().Format(time.RFC3339))
	return f, nil
}
