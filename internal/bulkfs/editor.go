package bulkfs

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// OpenEditor invokes an external editor on path, synchronously, in the
// foreground. With editor == "", it delegates to the Workspace's
// file-opener collaborator (MIME-association based); with a non-empty
// editor it is spawned directly as argv [editor, path].
//
// Whatever raw-mode state the child leaves the controlling terminal in,
// OpenEditor restores cooked/echoing mode before returning, since editors
// routinely put the terminal in raw mode and never clean up on a crash.
func OpenEditor(ctx context.Context, ws Workspace, path, editor string) error {
	restore := prepareTerminal()
	defer restore()

	var (
		status int
		err    error
	)
	if editor == "" {
		status, err = ws.OpenFile(ctx, path)
	} else {
		status, err = ws.LaunchForeground(ctx, []string{editor, path})
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEditorFailed, err)
	}
	if status != 0 {
		return fmt.Errorf("%w (exit status %d)", ErrEditorFailed, status)
	}
	return nil
}

// prepareTerminal snapshots the controlling terminal's state, if stdin is a
// tty, and returns a function that restores it. Non-interactive callers
// (argv redirected from a script, or tests) get a no-op restore.
func prepareTerminal() func() {
	fd := int(os.Stdin.Fd())
	if !isatty.IsTerminal(uintptr(fd)) && !isatty.IsCygwinTerminal(uintptr(fd)) {
		return func() {}
	}

	state, err := term.GetState(fd)
	if err != nil {
		return func() {}
	}

	return func() {
		_ = term.Restore(fd, state)
	}
}
