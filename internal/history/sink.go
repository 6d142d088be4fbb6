package history

import (
	"context"
	"log/slog"

	"github.com/clifm-go/bulkfs/internal/bulkfs"
)

// Sink adapts Store to bulkfs.AuditSink, translating a Report into one
// Record insert. Failures to write the audit log are logged, not
// propagated: an audit-trail outage must never fail the bulk operation it
// is merely recording.
type Sink struct {
	Store *Store
}

func (s Sink) Record(ctx context.Context, report bulkfs.Report) {
	if s.Store == nil {
		return
	}

	firstErr := ""
	if report.FirstErr != nil {
		firstErr = report.FirstErr.Error()
	}

	rec := Record{
		RunID:        report.RunID,
		Kind:         report.Kind,
		ItemCount:    report.ItemCount,
		SuccessCount: report.SuccessCount,
		FailCount:    report.FailCount,
		FirstError:   firstErr,
	}
	if err := s.Store.Insert(ctx, rec); err != nil {
		slog.Error("writing audit record", slog.String("error", err.Error()))
	}
}
