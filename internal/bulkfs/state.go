package bulkfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"syscall"

	"github.com/google/uuid"
)

// AuditSink receives one record per completed BulkRename/BulkRemove
// invocation. It is a pure side-effecting log, never an undo source: no
// implementation of this interface is consulted to drive behavior. See
// internal/history.Sink for the production implementation.
type AuditSink interface {
	Record(ctx context.Context, report Report)
}

// noopAudit is used when no AuditSink is configured.
type noopAudit struct{}

func (noopAudit) Record(context.Context, Report) {}

// Options configures one BulkRename/BulkRemove invocation.
type Options struct {
	Editor  string // explicit editor override; "" uses the default opener
	DryRun  bool   // stop after printing the change summary, before Confirm
	Audit   AuditSink
	Confirm bool // when false, skip the interactive y/n prompt and proceed (for scripted callers)
}

func (o Options) audit() AuditSink {
	if o.Audit == nil {
		return noopAudit{}
	}
	return o.Audit
}

// BulkRename runs the full Init -> Enumerate -> Write -> Edit -> Diff ->
// Confirm -> Apply -> Report -> Cleanup state machine for the rename flow.
// args is argv[1:] (the files to rename); argv[0] is not this function's
// concern.
func BulkRename(ctx context.Context, ws Workspace, args []string, opts Options) int {
	runID := uuid.New()
	log := slog.With(slog.String("run_id", runID.String()), slog.String("op", "rename"))

	seq, err := EnumerateArgs(ctx, ws, args)
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	doc, err := Create(ws.TempDir())
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}
	defer func() { _ = doc.Unlink() }()

	lines := make([]string, len(seq))
	for i, e := range seq {
		lines[i] = e.Display
	}
	if err := doc.writeHeaderAndLines(opRename, lines); err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	saved, err := doc.Mtime()
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	if err := OpenEditor(ctx, ws, doc.Path(), opts.Editor); err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	result, err := DiffRename(doc, seq, saved)
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	switch result.Outcome {
	case OutcomeUnchanged:
		fmt.Println("Nothing to do")
		return 0
	case OutcomeLineMismatch:
		ws.Errorf("%v", ErrLineMismatch)
		return 1
	}

	fmt.Print(Summarize(result, seq))
	if opts.DryRun {
		return 0
	}
	if opts.Confirm && !ws.Confirm("Continue?") {
		return 0
	}

	report, itemErrs := ApplyRename(ctx, ws, runID, seq, result.Changes)
	opts.audit().Record(ctx, report)
	fmt.Println(report.Message())

	if itemErrs != nil {
		log.Error("rename batch had failures", slog.Int("failed", len(itemErrs.Errors)))
		return exitCodeFor(itemErrs)
	}
	return 0
}

// BulkRemove runs the same state machine for the remove flow. s1 and s2
// are the raw (target-or-editor, editor) parameters; either may be empty.
func BulkRemove(ctx context.Context, ws Workspace, s1, s2 string, opts Options) int {
	runID := uuid.New()
	log := slog.With(slog.String("run_id", runID.String()), slog.String("op", "remove"))

	target, editor, err := ParseRemoveArgs(ws, s1, s2)
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}
	if editor == "" {
		editor = opts.Editor
	}

	seq, err := EnumerateDir(ctx, ws, target)
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}
	if len(seq) == 0 {
		fmt.Println("Nothing to do")
		return 0
	}

	doc, err := Create(ws.TempDir())
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}
	defer func() { _ = doc.Unlink() }()

	lines := make([]string, len(seq))
	for i, e := range seq {
		if sfx := e.Kind.suffix(); sfx != 0 {
			lines[i] = e.Display + string(sfx)
		} else {
			lines[i] = e.Display
		}
	}
	if err := doc.writeHeaderAndLines(opRemove, lines); err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	saved, err := doc.Mtime()
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	if err := OpenEditor(ctx, ws, doc.Path(), editor); err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	result, err := DiffRemove(doc, seq, saved)
	if err != nil {
		ws.Errorf("%v", err)
		return 1
	}

	if result.Outcome == OutcomeUnchanged {
		fmt.Println("Nothing to do")
		return 0
	}

	fmt.Print(Summarize(result, seq))
	if opts.DryRun {
		return 0
	}
	if opts.Confirm && !ws.Confirm("Continue?") {
		return 0
	}

	report, itemErrs := ApplyRemove(ctx, ws, runID, target, seq, result.RemoveIndices)
	opts.audit().Record(ctx, report)
	fmt.Println(report.Message())

	if itemErrs != nil {
		log.Error("remove batch had failures", slog.Int("failed", len(itemErrs.Errors)))
		return exitCodeFor(itemErrs)
	}
	return 0
}

// exitCodeFor maps the first collected item error onto a process exit
// status: the underlying errno when there is one, else a nonzero exit code
// carried by the error, EXIT_FAILURE otherwise.
func exitCodeFor(errs *ItemErrors) int {
	first := errs.First()
	if first == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(first, &errno) && errno != 0 {
		return int(errno)
	}
	var exitErr interface{ ExitCode() int }
	if errors.As(first, &exitErr) {
		if code := exitErr.ExitCode(); code != 0 {
			return code
		}
	}
	return 1
}
