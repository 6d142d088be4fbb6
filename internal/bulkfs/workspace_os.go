package bulkfs

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// OSWorkspace is the production Workspace: real syscalls, a real MIME
// opener, a y/n prompt over the controlling terminal, and an in-process
// directory-listing cache guarded by a mutex (reads happen through
// CachedDirList; writes happen from ReloadDirList).
type OSWorkspace struct {
	cwd        string
	cliTempDir string
	stealth    bool
	autoList   bool
	opener     string // explicit $OPENER override, or "" to probe xdg-open/open
	selection  []string
	in         *bufio.Reader
	out        *os.File

	mu      sync.RWMutex
	dirList []Entry
}

// NewOSWorkspace constructs a Workspace rooted at cwd. cliTempDir is the
// CliFM-owned temp directory used unless stealth is set, in which case the
// system default (os.TempDir()) is used instead.
func NewOSWorkspace(cwd, cliTempDir string, stealth, autoList bool) *OSWorkspace {
	return &OSWorkspace{
		cwd:        cwd,
		cliTempDir: cliTempDir,
		stealth:    stealth,
		autoList:   autoList,
		opener:     os.Getenv("OPENER"),
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stderr,
	}
}

// OpenFile opens path via the best available MIME-association opener:
// $OPENER if set, else the first of xdg-open and `open` found on PATH.
func (w *OSWorkspace) OpenFile(ctx context.Context, path string) (int, error) {
	opener := w.opener
	if opener == "" {
		opener = defaultOpener()
	}
	if opener == "" {
		return 0, fmt.Errorf("no file opener available (set $OPENER)")
	}
	return w.LaunchForeground(ctx, []string{opener, path})
}

func defaultOpener() string {
	for _, candidate := range []string{"xdg-open", "open"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}

// LaunchForeground runs argv synchronously with the current process's
// stdio attached, returning its exit status.
func (w *OSWorkspace) LaunchForeground(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("empty argv")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // intentional editor/opener launch
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

// RemoveFiles unlinks/rmdirs every path in argv[1:], continuing past
// individual failures, and returns 0 if all succeeded or the count of
// failures otherwise.
func (w *OSWorkspace) RemoveFiles(_ context.Context, argv []string) int {
	failures := 0
	for _, path := range argv[1:] {
		if err := os.RemoveAll(path); err != nil {
			slog.Error("removing file", slog.String("path", path), slog.String("error", err.Error()))
			failures++
		}
	}
	return failures
}

// IsFileInCWD reports whether path resolves inside the workspace directory.
func (w *OSWorkspace) IsFileInCWD(path string) bool {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(w.cwd, abs)
	}
	rel, err := filepath.Rel(w.cwd, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ReloadDirList re-scans the workspace directory and replaces the cache.
func (w *OSWorkspace) ReloadDirList() {
	seq, err := EnumerateDir(context.Background(), w, w.cwd)
	if err != nil {
		slog.Error("reloading directory listing", slog.String("error", err.Error()))
		return
	}
	w.mu.Lock()
	w.dirList = seq
	w.mu.Unlock()
}

func (w *OSWorkspace) SelectedFiles() []string { return w.selection }

// SetSelection installs the current selection set.
func (w *OSWorkspace) SetSelection(paths []string) { w.selection = paths }

// Confirm prompts on stderr and reads a line from stdin; only "y"/"yes"
// (case-insensitive) is affirmative.
func (w *OSWorkspace) Confirm(prompt string) bool {
	fmt.Fprintf(w.out, "%s [y/n] ", prompt)
	line, err := w.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (w *OSWorkspace) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Error(msg)
	fmt.Fprintln(w.out, msg)
}

// PressAnyKeyToContinue blocks for one byte of stdin input.
func (w *OSWorkspace) PressAnyKeyToContinue() {
	fmt.Fprint(w.out, "Press any key to continue... ")
	_, _ = w.in.ReadByte()
}

func (w *OSWorkspace) PrintReloadMsg(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func (w *OSWorkspace) CWD() string { return w.cwd }

func (w *OSWorkspace) CachedDirList() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Entry(nil), w.dirList...)
}

func (w *OSWorkspace) StealthMode() bool { return w.stealth }

func (w *OSWorkspace) TempDir() string {
	if w.stealth {
		return os.TempDir()
	}
	return w.cliTempDir
}

func (w *OSWorkspace) AutoListEnabled() bool { return w.autoList }
