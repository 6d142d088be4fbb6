package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/clifm-go/bulkfs/internal/bulkfs"
)

func TestSink_Record(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	sink := Sink{Store: store}
	sink.Record(context.Background(), bulkfs.Report{
		RunID:        "run-1",
		Kind:         "rename",
		ItemCount:    3,
		SuccessCount: 2,
		FailCount:    1,
		FirstErr:     errors.New("boom"),
	})

	got, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].FirstError != "boom" || got[0].FailCount != 1 {
		t.Fatalf("got = %+v", got)
	}
}

func TestSink_NilStoreIsNoop(t *testing.T) {
	var sink Sink
	// Must not panic.
	sink.Record(context.Background(), bulkfs.Report{RunID: "x"})
}
