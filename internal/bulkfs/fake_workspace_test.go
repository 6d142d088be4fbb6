package bulkfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// fakeWorkspace is an in-memory Workspace for exercising the state machine
// without a real editor or terminal. editFunc simulates what the user did
// to the temp document before the editor "returns".
type fakeWorkspace struct {
	cwd      string
	tempDir  string
	stealth  bool
	autoList bool

	editFunc   func(path string) error
	confirmAns bool
	openCalls  int

	errs      []string
	reloads   int
	selection []string
}

func newFakeWorkspace(cwd string) *fakeWorkspace {
	return &fakeWorkspace{
		cwd:        cwd,
		tempDir:    filepath.Join(cwd, ".bulktmp"),
		autoList:   true,
		confirmAns: true,
	}
}

func (w *fakeWorkspace) OpenFile(_ context.Context, path string) (int, error) {
	w.openCalls++
	if w.editFunc == nil {
		return 0, nil
	}
	if err := w.editFunc(path); err != nil {
		return 0, err
	}
	return 0, nil
}

func (w *fakeWorkspace) LaunchForeground(ctx context.Context, argv []string) (int, error) {
	return w.OpenFile(ctx, argv[len(argv)-1])
}

func (w *fakeWorkspace) RemoveFiles(_ context.Context, argv []string) int {
	for _, p := range argv[1:] {
		_ = os.RemoveAll(p)
	}
	return 0
}

func (w *fakeWorkspace) IsFileInCWD(path string) bool {
	rel, err := filepath.Rel(w.cwd, path)
	return err == nil && rel != ".." && !filepath.IsAbs(rel)
}

func (w *fakeWorkspace) ReloadDirList() { w.reloads++ }

func (w *fakeWorkspace) SelectedFiles() []string { return w.selection }

func (w *fakeWorkspace) Confirm(string) bool { return w.confirmAns }

func (w *fakeWorkspace) Errorf(format string, args ...any) {
	w.errs = append(w.errs, fmt.Sprintf(format, args...))
}

func (w *fakeWorkspace) PressAnyKeyToContinue() {}

func (w *fakeWorkspace) PrintReloadMsg(string, ...any) {}

func (w *fakeWorkspace) CWD() string { return w.cwd }

func (w *fakeWorkspace) CachedDirList() []Entry { return nil }

func (w *fakeWorkspace) StealthMode() bool { return w.stealth }

func (w *fakeWorkspace) TempDir() string { return w.tempDir }

func (w *fakeWorkspace) AutoListEnabled() bool { return w.autoList }
