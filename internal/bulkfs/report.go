package bulkfs

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Report is the aggregate outcome of one Apply pass, surfaced to the
// caller and to the audit sink in internal/history. It never carries
// enough information to reverse an operation — no undo log — only
// counts and the first error encountered.
type Report struct {
	RunID        string
	Kind         string // "rename" or "remove"
	ItemCount    int
	SuccessCount int
	FailCount    int
	FirstErr     error
}

// Message renders an "N file(s) renamed"-style summary, humanizing the
// count once it stops being obviously legible at a glance.
func (r Report) Message() string {
	verb := "renamed"
	if r.Kind == "remove" {
		verb = "removed"
	}
	return fmt.Sprintf("%s file(s) %s", humanize.Comma(int64(r.SuccessCount)), verb)
}

// ExitCode maps the report onto the process exit-code contract: zero on
// success, otherwise the first nonzero status encountered.
func (r Report) ExitCode() int {
	if r.FirstErr == nil {
		return 0
	}
	return exitCodeFor(&ItemErrors{Errors: []ItemError{{Err: r.FirstErr}}})
}
