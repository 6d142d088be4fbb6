package bulkfs

import "context"

// Workspace bundles every external collaborator the bulk core depends on:
// the file opener, foreground subprocess launcher, remove delegate, cwd
// predicate, listing refresh, selection sync, confirmation prompt and
// diagnostics sink, plus the process-wide settings treated as shared,
// externally-owned state.
//
// The core reads these; it never mutates them directly (it may request a
// listing reload, but the reload itself is the Workspace's job).
type Workspace interface {
	// OpenFile opens path via MIME association, in the foreground,
	// returning the child's exit status.
	OpenFile(ctx context.Context, path string) (int, error)
	// LaunchForeground runs argv[0] with argv[1:] synchronously in the
	// foreground, returning its exit status.
	LaunchForeground(ctx context.Context, argv []string) (int, error)
	// RemoveFiles delegates unlink/rmdir (optionally via trash) for argv
	// (argv[0] is a command name, matching the "rr" convention), returning
	// an aggregate status.
	RemoveFiles(ctx context.Context, argv []string) int
	// IsFileInCWD reports whether path resides in the current workspace
	// directory.
	IsFileInCWD(path string) bool
	// ReloadDirList requests a refresh of the cached directory listing.
	ReloadDirList()
	// SelectedFiles returns the current selection set, when nonempty.
	SelectedFiles() []string
	// Confirm prompts the user with a y/n question and reports their
	// answer; only an affirmative reply is true.
	Confirm(prompt string) bool
	// Errorf emits a diagnostic message.
	Errorf(format string, args ...any)
	// PressAnyKeyToContinue pauses until the user acknowledges a message.
	PressAnyKeyToContinue()
	// PrintReloadMsg announces that the directory listing was refreshed.
	PrintReloadMsg(format string, args ...any)

	// CWD returns the current workspace directory.
	CWD() string
	// CachedDirList returns the already-cached directory listing.
	CachedDirList() []Entry
	// StealthMode reports whether stealth mode is active (forces the
	// system default temp directory instead of a CliFM-owned one).
	StealthMode() bool
	// TempDir returns the directory new TempDocs should be created under,
	// honoring StealthMode.
	TempDir() string
	// AutoListEnabled reports whether a successful mutation should trigger
	// an automatic directory listing refresh.
	AutoListEnabled() bool
}
