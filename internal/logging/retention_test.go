package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"stl2scc/internal/logging"
)

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -40)

	write := func(name string, mod time.Time) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
		return path
	}
	stale := write("stl2scc-20260129.log", old)
	current := write("stl2scc-20260130.log", old)
	fresh := write("stl2scc-20260309.log", now)
	unrelated := write("notes.txt", old)

	removed := logging.CleanupOldLogs(nil, 30, now, logging.RetentionTarget{
		Dir:     dir,
		Pattern: logging.LogFilePattern,
		Exclude: []string{current},
	})
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed, stat err = %v", err)
	}
	for _, keep := range []string{current, fresh, unrelated} {
		if _, err := os.Stat(keep); err != nil {
			t.Fatalf("expected %s to remain: %v", keep, err)
		}
	}

	if got := logging.CleanupOldLogs(nil, 0, now, logging.RetentionTarget{Dir: dir}); got != 0 {
		t.Fatalf("expected retention 0 to disable pruning, removed %d", got)
	}
}
