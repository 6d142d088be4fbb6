package bulkfs

import (
	"os"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
)

func TestTempDoc_DocumentFormat_Rename(t *testing.T) {
	doc, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = doc.Unlink() }()

	if err := doc.writeHeaderAndLines(opRename, []string{"/tmp/a", "/tmp/b"}); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(doc.Path())
	if err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t)
	g.Assert(t, "rename_document", got)
}

func TestTempDoc_DocumentFormat_Remove(t *testing.T) {
	doc, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = doc.Unlink() }()

	if err := doc.writeHeaderAndLines(opRemove, []string{"dir/", "file", "link@"}); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(doc.Path())
	if err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t)
	g.Assert(t, "remove_document", got)
}

func TestTempDoc_Mtime_WholeSecondResolution(t *testing.T) {
	doc, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = doc.Unlink() }()

	if err := doc.writeHeaderAndLines(opRename, []string{"a"}); err != nil {
		t.Fatal(err)
	}
	mtime, err := doc.Mtime()
	if err != nil {
		t.Fatal(err)
	}
	if mtime.Nanosecond() != 0 {
		t.Fatalf("Mtime() = %v, want whole-second resolution", mtime)
	}
}

func TestTempDoc_UnlinkIsIdempotent(t *testing.T) {
	doc, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Unlink(); err != nil {
		t.Fatalf("first Unlink: %v", err)
	}
	if err := doc.Unlink(); err != nil {
		t.Fatalf("second Unlink: %v", err)
	}
}

func TestIsCommentOrBlank(t *testing.T) {
	cases := map[string]bool{
		"":          true,
		"   ":       true,
		"# comment": true,
		"  # note":  true,
		"/tmp/a":    false,
	}
	for in, want := range cases {
		if got := isCommentOrBlank(in); got != want {
			t.Errorf("isCommentOrBlank(%q) = %v, want %v", in, got, want)
		}
	}
}

// Checks that Mtime's value equals its own whole-second truncation. Two
// writes a few hundred milliseconds apart therefore report the same
// mtime, which is a deliberately accepted coarseness, not a bug to fix here.
func TestTempDoc_Mtime_Truncates(t *testing.T) {
	doc, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = doc.Unlink() }()

	if err := doc.writeHeaderAndLines(opRename, []string{"a"}); err != nil {
		t.Fatal(err)
	}
	m1, err := doc.Mtime()
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m1.Truncate(time.Second) {
		t.Fatalf("Mtime() not truncated to whole seconds: %v", m1)
	}
}
