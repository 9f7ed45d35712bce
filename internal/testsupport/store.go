package testsupport

import (
	"context"
	"testing"

	"stl2scc/internal/config"
	"stl2scc/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordEntry inserts a converted entry for source and returns it.
func RecordEntry(t testing.TB, store *history.Store, runID, source, digest string) *history.Entry {
	t.Helper()

	entry, err := store.Record(context.Background(), history.Entry{
		RunID:       runID,
		SourcePath:  source,
		OutputPath:  source + ".scc",
		InputDigest: digest,
		Status:      history.StatusConverted,
		Captions:    1,
		Records:     1,
	})
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
