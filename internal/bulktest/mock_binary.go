// Package bulktest helps tests exercise code that resolves and spawns an
// external binary by name. ParseRemoveArgs' "s1 resolves on PATH" branch is
// the only caller in this module that needs a real, on-disk executable
// rather than a fakeWorkspace function hook — and it only needs the
// executable to exist, be resolvable, and exit cleanly.
package bulktest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// StubExecutable creates a no-op executable named name in dir — a shell
// script on Unix, a batch file on Windows — and returns its path.
func StubExecutable(t *testing.T, dir, name string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		path := filepath.Join(dir, name+".bat")
		if err := os.WriteFile(path, []byte("@echo off\r\nexit /b 0\r\n"), 0o755); err != nil { //nolint:gosec // test helper: must be executable
			t.Fatalf("writing stub executable %s: %v", name, err)
		}
		return path
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil { //nolint:gosec // test helper: must be executable
		t.Fatalf("writing stub executable %s: %v", name, err)
	}
	return path
}

// PrependPath returns PATH with dir prepended, using the OS-appropriate
// list separator, so a stub executable resolves by name alone.
func PrependPath(dir string) string {
	return dir + string(os.PathListSeparator) + os.Getenv("PATH")
}
