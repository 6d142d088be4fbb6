package bulkfs

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	insertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	removeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	arrowStyle  = lipgloss.NewStyle().Faint(true)
)

// Outcome classifies what the Differ found when comparing the edited
// document against the one it wrote.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeLineMismatch
	OutcomeChanges
)

// Change is one (index, old, new) rename pair, authoritative by index: the
// i-th non-comment edited line corresponds to the i-th Entry.
type Change struct {
	Index   int
	OldPath string
	NewPath string
}

// DiffResult is the outcome of one Diff pass. For rename, Changes is
// populated; for remove, RemoveIndices names which positions in the
// EntrySequence the user deleted from the document.
type DiffResult struct {
	Outcome       Outcome
	Changes       []Change
	RemoveIndices []int
}

// DiffRename compares the edited document against seq for the rename flow.
// A non-comment line count that differs from len(seq) is fatal
// (LineMismatch); otherwise each surviving line is compared positionally
// against its Entry.
func DiffRename(doc *TempDoc, seq EntrySequence, savedMtime time.Time) (DiffResult, error) {
	unchanged, err := mtimeUnchanged(doc, savedMtime)
	if err != nil {
		return DiffResult{}, err
	}
	if unchanged {
		return DiffResult{Outcome: OutcomeUnchanged}, nil
	}

	lines, err := readNonCommentLines(doc)
	if err != nil {
		return DiffResult{}, err
	}
	if len(lines) != len(seq) {
		return DiffResult{Outcome: OutcomeLineMismatch}, nil
	}

	var changes []Change
	for i, line := range lines {
		if line != seq[i].Display {
			changes = append(changes, Change{Index: i, OldPath: seq[i].Display, NewPath: line})
		}
	}
	if len(changes) == 0 {
		return DiffResult{Outcome: OutcomeUnchanged}, nil
	}
	return DiffResult{Outcome: OutcomeChanges, Changes: changes}, nil
}

// DiffRemove compares the edited document against seq for the remove flow.
// Unlike rename, survivorship is by set membership of the
// (suffix-stripped) path text, not position: any entry whose name is no
// longer present in the edited document is scheduled for removal. A
// document with more non-comment lines than the original is tolerated —
// the extra lines simply match nothing and are ignored.
func DiffRemove(doc *TempDoc, seq EntrySequence, savedMtime time.Time) (DiffResult, error) {
	unchanged, err := mtimeUnchanged(doc, savedMtime)
	if err != nil {
		return DiffResult{}, err
	}
	if unchanged {
		return DiffResult{Outcome: OutcomeUnchanged}, nil
	}

	lines, err := readNonCommentLines(doc)
	if err != nil {
		return DiffResult{}, err
	}

	survivors := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		survivors[stripSuffix(line)] = struct{}{}
	}

	var removeIdx []int
	for i, e := range seq {
		if _, ok := survivors[e.Display]; !ok {
			removeIdx = append(removeIdx, i)
		}
	}
	if len(removeIdx) == 0 {
		return DiffResult{Outcome: OutcomeUnchanged}, nil
	}
	return DiffResult{Outcome: OutcomeChanges, RemoveIndices: removeIdx}, nil
}

func mtimeUnchanged(doc *TempDoc, saved time.Time) (bool, error) {
	now, err := doc.Mtime()
	if err != nil {
		return false, err
	}
	return now.Equal(saved), nil
}

// readNonCommentLines rewinds the document and returns every non-comment,
// non-blank line with its trailing newline stripped. Comments and blank
// lines are invisible to the Differ regardless of their position.
func readNonCommentLines(doc *TempDoc) ([]string, error) {
	f, err := doc.ReopenForRead()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if isCommentOrBlank(line) {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading temp document: %w", err)
	}
	return lines, nil
}

// Summarize renders a human-readable change summary for the confirmation
// prompt. For rename it aligns each (old, new) pair at the character level
// with diffmatchpatch so only the changed path segment stands out; for
// remove it is a flat list of removal targets. Styling degrades to plain
// text automatically when stdout isn't a color-capable terminal, since
// lipgloss queries the environment itself.
func Summarize(result DiffResult, seq EntrySequence) string {
	var b strings.Builder
	dmp := diffmatchpatch.New()

	switch {
	case len(result.Changes) > 0:
		for _, c := range result.Changes {
			diffs := dmp.DiffMain(c.OldPath, c.NewPath, false)
			diffs = dmp.DiffCleanupSemantic(diffs)
			fmt.Fprintf(&b, "  %s %s %s\n", c.OldPath, arrowStyle.Render("->"), renderInline(diffs))
		}
	case len(result.RemoveIndices) > 0:
		for _, idx := range result.RemoveIndices {
			fmt.Fprintf(&b, "  %s\n", removeStyle.Render(seq[idx].Display))
		}
	}
	return b.String()
}

// renderInline prints the new side of a diff with insertions highlighted,
// for the confirmation-screen change summary.
func renderInline(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(insertStyle.Render(d.Text))
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			// omitted from the "new" rendering entirely
		}
	}
	return b.String()
}
