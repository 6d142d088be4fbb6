package bulkfs

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/google/uuid"
)

// mvWorkspace simulates the `mv` binary by performing the move itself when
// LaunchForeground is called with an ["mv", "--", old, new] argv, so
// mvFallback and its EXDEV caller can be driven without shelling out or
// needing a real cross-device filesystem.
type mvWorkspace struct {
	*fakeWorkspace
	status   int
	launches [][]string
}

func (w *mvWorkspace) LaunchForeground(_ context.Context, argv []string) (int, error) {
	w.launches = append(w.launches, argv)
	if w.status != 0 {
		return w.status, nil
	}
	if err := os.Rename(argv[2], argv[3]); err != nil {
		return 1, nil
	}
	return 0, nil
}

func TestMvFallback_RoutesThroughWorkspace(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a"), "a")

	ws := &mvWorkspace{fakeWorkspace: newFakeWorkspace(dir)}
	if err := mvFallback(context.Background(), ws, filepath.Join(dir, "a"), filepath.Join(dir, "a2")); err != nil {
		t.Fatalf("mvFallback: %v", err)
	}
	if len(ws.launches) != 1 || ws.launches[0][0] != "mv" {
		t.Fatalf("launches = %+v", ws.launches)
	}
	if exists(filepath.Join(dir, "a")) || !exists(filepath.Join(dir, "a2")) {
		t.Fatalf("mv fallback did not move the file")
	}
}

func TestMvFallback_NonzeroExitIsError(t *testing.T) {
	ws := &mvWorkspace{fakeWorkspace: newFakeWorkspace(t.TempDir()), status: 1}
	if err := mvFallback(context.Background(), ws, "/a", "/b"); err == nil {
		t.Fatal("expected an error for a nonzero mv exit status")
	}
}

// S6: cross-device rename — os.Rename reports EXDEV and ApplyRename falls
// back to mv, which still completes the move.
func TestApplyRename_CrossDeviceFallback(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a"), "a")

	prevRename := osRename
	osRename = func(oldPath, newPath string) error {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: syscall.EXDEV}
	}
	defer func() { osRename = prevRename }()

	ws := &mvWorkspace{fakeWorkspace: newFakeWorkspace(dir)}
	seq := EntrySequence{{Display: filepath.Join(dir, "a")}}
	changes := []Change{{Index: 0, OldPath: filepath.Join(dir, "a"), NewPath: filepath.Join(dir, "a2")}}

	report, errs := ApplyRename(context.Background(), ws, uuid.New(), seq, changes)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if report.SuccessCount != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(ws.launches) != 1 || ws.launches[0][0] != "mv" {
		t.Fatalf("expected the mv fallback to run, got %+v", ws.launches)
	}
	if exists(filepath.Join(dir, "a")) || !exists(filepath.Join(dir, "a2")) {
		t.Fatalf("cross-device fallback did not move the file")
	}
}

func TestApplyRename_Success(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "a"), "a")

	ws := newFakeWorkspace(dir)
	seq := EntrySequence{{Display: filepath.Join(dir, "a")}}
	changes := []Change{{Index: 0, OldPath: filepath.Join(dir, "a"), NewPath: filepath.Join(dir, "a2")}}

	report, errs := ApplyRename(context.Background(), ws, uuid.New(), seq, changes)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if report.SuccessCount != 1 || report.FailCount != 0 {
		t.Fatalf("report = %+v", report)
	}
	if exists(filepath.Join(dir, "a")) || !exists(filepath.Join(dir, "a2")) {
		t.Fatalf("rename did not take effect")
	}
}

// Property: partial failure continuation — a failing rename does not stop
// subsequent ones from being attempted.
func TestApplyRename_PartialFailureContinues(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "b"), "b")
	// "a" does not exist, so renaming it must fail but not block "b".

	ws := newFakeWorkspace(dir)
	seq := EntrySequence{
		{Display: filepath.Join(dir, "a")},
		{Display: filepath.Join(dir, "b")},
	}
	changes := []Change{
		{Index: 0, OldPath: filepath.Join(dir, "a"), NewPath: filepath.Join(dir, "a2")},
		{Index: 1, OldPath: filepath.Join(dir, "b"), NewPath: filepath.Join(dir, "b2")},
	}

	report, errs := ApplyRename(context.Background(), ws, uuid.New(), seq, changes)
	if errs == nil || len(errs.Errors) != 1 {
		t.Fatalf("expected exactly 1 item error, got %v", errs)
	}
	if report.SuccessCount != 1 || report.FailCount != 1 {
		t.Fatalf("report = %+v", report)
	}
	if !exists(filepath.Join(dir, "b2")) {
		t.Fatalf("second rename should have been attempted despite the first failing")
	}
}

func TestTrimTrailingSlash(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trailing_slash", in: "/tmp/dir/", want: "/tmp/dir"},
		{name: "root", in: "/", want: "/"},
		{name: "no_slash", in: "a", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimTrailingSlash(tt.in); got != tt.want {
				t.Errorf("trimTrailingSlash(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveRemovePath(t *testing.T) {
	cwd := "/home/user"

	if got := resolveRemovePath(cwd, cwd, "file", true); got != "file" {
		t.Errorf("CWD case = %q, want %q", got, "file")
	}
	if got, want := resolveRemovePath(cwd, "/abs/target", "file", false), "/abs/target/file"; got != want {
		t.Errorf("absolute target = %q, want %q", got, want)
	}
	if got, want := resolveRemovePath(cwd, "rel/target", "file", false), filepath.Join(cwd, "rel/target", "file"); got != want {
		t.Errorf("relative target = %q, want %q", got, want)
	}
}

func TestApplyRemove_Success(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	mustWriteFile(t, filepath.Join(target, "gone"), "x")
	mustWriteFile(t, filepath.Join(target, "stays"), "x")

	ws := newFakeWorkspace(root)
	seq := EntrySequence{{Display: "gone"}, {Display: "stays"}}

	report, errs := ApplyRemove(context.Background(), ws, uuid.New(), target, seq, []int{0})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if report.SuccessCount != 1 {
		t.Fatalf("report = %+v", report)
	}
	if exists(filepath.Join(target, "gone")) || !exists(filepath.Join(target, "stays")) {
		t.Fatalf("remove did not take effect as expected")
	}
}
