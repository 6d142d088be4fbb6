package bulkfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

// osRename is a seam over os.Rename so tests can simulate a cross-device
// rename failure (syscall.EXDEV) without needing a real multi-filesystem
// setup.
var osRename = os.Rename

// mvFallback runs `mv -- <old> <new>` through the Workspace's foreground
// launcher and reports its exit status as an error, letting the platform's
// own mv binary handle the cross-device copy-then-unlink.
func mvFallback(ctx context.Context, ws Workspace, oldPath, newPath string) error {
	status, err := ws.LaunchForeground(ctx, []string{"mv", "--", oldPath, newPath})
	if err != nil {
		return fmt.Errorf("mv fallback: %w", err)
	}
	if status != 0 {
		return fmt.Errorf("mv fallback: exit status %d", status)
	}
	return nil
}

// ApplyRename realizes a rename flow's change list as file-system
// mutations. It never aborts on the first failure: every pair is
// attempted, the first nonzero status becomes the aggregate result, and a
// diagnostic is emitted per failure.
func ApplyRename(ctx context.Context, ws Workspace, runID uuid.UUID, seq EntrySequence, changes []Change) (Report, *ItemErrors) {
	report := Report{RunID: runID.String(), Kind: "rename", ItemCount: len(changes)}
	var errs ItemErrors

	touchedCWD := false
	for _, c := range changes {
		newPath := trimTrailingSlash(c.NewPath)

		if err := renameWithFallback(ctx, ws, c.OldPath, newPath); err != nil {
			errs.Add(c.Index, newPath, err)
			ws.Errorf("renaming %s to %s: %v", c.OldPath, newPath, err)
			if len(changes) > 1 && ws.AutoListEnabled() {
				ws.PressAnyKeyToContinue()
			}
			continue
		}

		report.SuccessCount++
		if ws.IsFileInCWD(c.OldPath) || ws.IsFileInCWD(newPath) {
			touchedCWD = true
		}
	}

	report.FailCount = len(errs.Errors)
	report.FirstErr = errs.First()

	if touchedCWD && ws.AutoListEnabled() {
		ws.ReloadDirList()
		ws.PrintReloadMsg("directory listing refreshed")
	}

	if errs.HasErrors() {
		return report, &errs
	}
	return report, nil
}

// renameWithFallback attempts an atomic rename and, on EXDEV (cross-device
// rename), falls back to spawning `mv` in the foreground so the platform's
// own copy-then-unlink logic (sparse files, xattrs) handles the move.
func renameWithFallback(ctx context.Context, ws Workspace, oldPath, newPath string) error {
	err := osRename(oldPath, newPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	return mvFallback(ctx, ws, oldPath, newPath)
}

func trimTrailingSlash(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return strings.TrimSuffix(path, "/")
	}
	return path
}

// ApplyRemove realizes a remove flow's change list by delegating the
// actual unlink/rmdir to the Workspace's remove collaborator. Paths are
// resolved absolute for non-CWD targets and as-listed for CWD: target/name
// or cwd/target/name depending on whether target begins with '/'.
func ApplyRemove(ctx context.Context, ws Workspace, runID uuid.UUID, target string, seq EntrySequence, removeIdx []int) (Report, *ItemErrors) {
	report := Report{RunID: runID.String(), Kind: "remove", ItemCount: len(removeIdx)}
	var errs ItemErrors

	isCWD := target == ws.CWD()
	argv := make([]string, 0, len(removeIdx)+1)
	argv = append(argv, "rr")

	for _, idx := range removeIdx {
		argv = append(argv, resolveRemovePath(ws.CWD(), target, seq[idx].Display, isCWD))
	}

	status := ws.RemoveFiles(ctx, argv)
	if status != 0 {
		// The remove collaborator reports an aggregate status for the
		// whole batch, not per-item, so every attempted removal shares
		// one ItemError keyed on the first removed entry.
		var firstPath string
		if len(removeIdx) > 0 {
			firstPath = seq[removeIdx[0]].Display
		}
		errs.Add(removeIdx[0], firstPath, fmt.Errorf("remove-files exited with status %d", status))
		report.FailCount = len(removeIdx)
	} else {
		report.SuccessCount = len(removeIdx)
	}

	report.FirstErr = errs.First()

	if isCWD && ws.AutoListEnabled() {
		ws.ReloadDirList()
		ws.PrintReloadMsg("directory listing refreshed")
	}

	if errs.HasErrors() {
		return report, &errs
	}
	return report, nil
}

func resolveRemovePath(cwd, target, name string, isCWD bool) string {
	if isCWD {
		return name
	}
	if strings.HasPrefix(target, "/") {
		return filepath.Join(target, name)
	}
	return filepath.Join(cwd, target, name)
}
