package bulkfs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// EnumerateArgs builds the EntrySequence for the rename flow from a caller
// argument vector (argv[1:] — argv[0] is the command name). Input order
// is preserved; entries that fail pre-validation are skipped after a
// diagnostic and a press-any-key acknowledgement, never aborting the
// whole enumeration.
func EnumerateArgs(ctx context.Context, ws Workspace, args []string) (EntrySequence, error) {
	seq := make(EntrySequence, 0, len(args))

	for _, raw := range args {
		path, ok := resolveArg(ws, raw)
		if !ok {
			continue
		}

		info, err := os.Lstat(path)
		if err != nil {
			ws.Errorf("%s: %v", path, err)
			ws.PressAnyKeyToContinue()
			continue
		}

		seq = append(seq, Entry{
			Display:     path,
			Kind:        kindFromMode(info.Mode()),
			CWDRelative: ws.IsFileInCWD(path),
		})
	}

	if len(seq) == 0 {
		return nil, ErrEmptyArgs
	}
	return seq, nil
}

// resolveArg applies the two rename-flow pre-validation transforms in
// order: backslash-unescape, then realpath canonicalization of a leading
// "./" or "../" against the workspace directory. An argument that cannot
// be canonicalized is reported, acknowledged and skipped (ok is false);
// for every other argument the subsequent lstat decides whether it
// survives.
func resolveArg(ws Workspace, raw string) (string, bool) {
	path := raw
	if strings.ContainsRune(path, '\\') {
		path = unescape(path)
	}

	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		abs, err := filepath.EvalSymlinks(filepath.Join(ws.CWD(), path))
		if err != nil {
			ws.Errorf("%s: %v", raw, err)
			ws.PressAnyKeyToContinue()
			return "", false
		}
		path = abs
	}

	return path, true
}

// unescape interprets backslash-escapes the way a shell-fed argument list
// would: a backslash removes any special meaning from the character that
// follows it.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

// kindFromMode classifies an os.FileMode into the Kind taxonomy. Regular
// files and anything Go's os.FileMode can't otherwise distinguish fall
// through to KindFile/KindUnknown.
func kindFromMode(mode os.FileMode) Kind {
	switch {
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	case mode&os.ModeDir != 0:
		return KindDir
	case mode&os.ModeSocket != 0:
		return KindSocket
	case mode&os.ModeNamedPipe != 0:
		return KindFifo
	case mode&os.ModeDevice != 0:
		if mode&os.ModeCharDevice != 0 {
			return KindCharDevice
		}
		return KindBlockDevice
	case mode&os.ModeIrregular != 0:
		return KindUnknown
	case mode.IsRegular():
		return KindFile
	default:
		return KindUnknown
	}
}

// EnumerateDir builds the EntrySequence for the remove flow from a target
// directory by scanning it fresh, sorted by alphanumeric collation, with
// "." and ".." excluded. This always hits the filesystem, even when
// target is the current workspace directory — CachedDirList is a
// read-only accessor for whatever a prior ReloadDirList saw, not a
// substitute for scanning here.
func EnumerateDir(_ context.Context, ws Workspace, target string) (EntrySequence, error) {
	dirEntries, err := os.ReadDir(target)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", target, err)
	}

	sort.Slice(dirEntries, func(i, j int) bool {
		return strings.Compare(dirEntries[i].Name(), dirEntries[j].Name()) < 0
	})

	seq := make(EntrySequence, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if name == "." || name == ".." {
			continue
		}

		kind, ok := kindFromDirEntry(de)
		if !ok {
			info, err := os.Lstat(filepath.Join(target, name))
			if err != nil {
				ws.Errorf("%s: %v", name, err)
				continue
			}
			kind = kindFromMode(info.Mode())
		}

		seq = append(seq, Entry{Display: name, Kind: kind, CWDRelative: true})
	}

	return seq, nil
}

// kindFromDirEntry classifies a directory entry using the type bits
// readdir gave us for free, without an extra lstat. ok is false when the
// type is not determinable this way and an lstat fallback is required.
func kindFromDirEntry(de os.DirEntry) (Kind, bool) {
	t := de.Type()
	switch {
	case t&os.ModeSymlink != 0:
		return KindSymlink, true
	case t.IsDir():
		return KindDir, true
	case t&os.ModeSocket != 0:
		return KindSocket, true
	case t&os.ModeNamedPipe != 0:
		return KindFifo, true
	case t&os.ModeDevice != 0:
		if t&os.ModeCharDevice != 0 {
			return KindCharDevice, true
		}
		return KindBlockDevice, true
	case t.IsRegular():
		return KindFile, true
	default:
		return KindUnknown, false
	}
}

// ParseRemoveArgs resolves the remove flow's (s1, s2) parameter pair into
// a target directory and an optional editor override:
//
//   - s1 empty           -> target is CWD, editor is the default opener
//   - s1 is a directory  -> target is s1, editor is the default opener
//   - s1 resolves on PATH -> target is CWD, editor is s1
//   - otherwise          -> ErrNotADirectory / os.ErrNotExist
//
// s2, when present, must resolve as an executable on PATH and overrides
// whatever editor s1 implied.
func ParseRemoveArgs(ws Workspace, s1, s2 string) (target, editor string, err error) {
	switch {
	case s1 == "":
		target, editor = ws.CWD(), ""
	default:
		if info, statErr := os.Stat(s1); statErr == nil && info.IsDir() {
			target, editor = s1, ""
		} else if path, lookErr := exec.LookPath(s1); lookErr == nil {
			target, editor = ws.CWD(), path
		} else if statErr != nil && os.IsNotExist(statErr) {
			return "", "", fmt.Errorf("%s: %w", s1, os.ErrNotExist)
		} else {
			return "", "", fmt.Errorf("%s: %w", s1, ErrNotADirectory)
		}
	}

	if s2 != "" {
		path, lookErr := exec.LookPath(s2)
		if lookErr != nil {
			return "", "", fmt.Errorf("%s: %w", s2, os.ErrNotExist)
		}
		editor = path
	}

	return target, editor, nil
}
