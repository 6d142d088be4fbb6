package bulkfs

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// docHeaderTpl is the fixed, multiline comment block written at the top of
// every bulk-operation document. It is never counted by the Differ.
const docHeaderTpl = `# CliFM - %s files in bulk
# Edit the list below, save, and quit the editor to apply the changes.
# Quit without saving (or without changing anything) to cancel.
#
`

// opKind names the two flows a TempDoc can be created for.
type opKind string

const (
	opRename opKind = "Rename"
	opRemove opKind = "Remove"
)

// TempDoc is the secure temporary document handed to the external editor.
// It owns exactly one open file descriptor from Create through Unlink.
type TempDoc struct {
	file *os.File
	path string
}

// Create makes a unique file under dir (race-safe, exclusive) and returns a
// TempDoc ready for writeHeaderAndLines. dir is created (mode 0700) if it
// does not exist yet; the caller (Workspace.TempDir, gated by stealth mode)
// decides which directory that is.
func Create(dir string) (*TempDoc, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating temp directory %s: %w", dir, err)
	}

	const attempts = 100
	var lastErr error
	for i := 0; i < attempts; i++ {
		name := filepath.Join(dir, fmt.Sprintf("clifmbulk.%d.%06d", os.Getpid(), rand.Int63n(1_000_000)))
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			if os.IsExist(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("creating temp document: %w", err)
		}
		return &TempDoc{file: f, path: name}, nil
	}
	return nil, fmt.Errorf("creating temp document after %d attempts: %w", attempts, lastErr)
}

// Path returns the filesystem path of the temp document.
func (t *TempDoc) Path() string { return t.path }

// writeHeaderAndLines writes the fixed header for kind, then one line per
// entry (truncating any prior content first, since Create leaves the file
// empty and this is only ever called once per TempDoc).
func (t *TempDoc) writeHeaderAndLines(kind opKind, lines []string) error {
	if err := t.file.Truncate(0); err != nil {
		return t.failAndUnlink(fmt.Errorf("truncating temp document: %w", err))
	}
	if _, err := t.file.Seek(0, 0); err != nil {
		return t.failAndUnlink(fmt.Errorf("seeking temp document: %w", err))
	}

	w := bufio.NewWriter(t.file)
	if _, err := fmt.Fprintf(w, docHeaderTpl, kind); err != nil {
		return t.failAndUnlink(fmt.Errorf("writing temp document header: %w", err))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return t.failAndUnlink(fmt.Errorf("writing temp document line: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return t.failAndUnlink(fmt.Errorf("flushing temp document: %w", err))
	}
	if err := t.file.Sync(); err != nil {
		return t.failAndUnlink(fmt.Errorf("syncing temp document: %w", err))
	}
	return nil
}

// failAndUnlink unlinks the document before propagating a write-path
// error: any I/O failure past creation unlinks the document before
// returning.
func (t *TempDoc) failAndUnlink(err error) error {
	_ = t.Unlink()
	return err
}

// Mtime returns the last-modification time of the file at the document's
// path, truncated to whole seconds. It is read by path, like
// ReopenForRead, so an editor that saves by renaming a new file over the
// document is seen as well. This is the sole signal the Differ uses to
// detect "no edits" — deliberately coarse, since sub-second edits within
// the same tick are rare enough in an interactive editing session not to
// warrant finer resolution.
func (t *TempDoc) Mtime() (time.Time, error) {
	info, err := os.Stat(t.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat temp document: %w", err)
	}
	return info.ModTime().Truncate(time.Second), nil
}

// ReopenForRead returns a fresh read-only view of the document's current
// on-disk content, for the Differ to scan after the editor exits.
func (t *TempDoc) ReopenForRead() (*os.File, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("reopening temp document: %w", err)
	}
	return f, nil
}

// Unlink removes the document via the held descriptor, to avoid a TOCTOU
// race with any other process that might have created a file of the same
// name in the interim. It is safe to call more than once and is called on
// every exit path, success or failure.
func (t *TempDoc) Unlink() error {
	if t.file == nil {
		return nil
	}
	err := unlinkViaHeldDescriptor(t.path, t.file)
	_ = t.file.Close()
	t.file = nil
	return err
}

// isCommentOrBlank reports whether line is invisible to the Differ: it is
// empty/blank, or its first non-whitespace character is '#'.
func isCommentOrBlank(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || trimmed[0] == '#'
}
