package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stl2scc/internal/convert"
	"stl2scc/internal/history"
	"stl2scc/internal/logging"
	"stl2scc/internal/textutil"
)

const stdoutPath = "-"

// outputPathFor places input's SCC sibling in outDir, or next to the input
// when outDir is empty.
func outputPathFor(input, outDir, ext string) string {
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	base := filepath.Base(input)
	stem := textutil.SanitizeFileName(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "captions"
	}
	return filepath.Join(outDir, stem+ext)
}

// writeOutput replaces path atomically so readers never see a partial file.
func writeOutput(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

func statusFor(err error) history.Status {
	switch {
	case err == nil:
		return history.StatusConverted
	case convert.IsEmpty(err):
		return history.StatusEmpty
	default:
		return history.StatusFailed
	}
}

func entryFor(runID, source, output, digest string, opts convert.Options, res *convert.Result, err error, elapsed time.Duration) history.Entry {
	entry := history.Entry{
		RunID:       runID,
		SourcePath:  source,
		OutputPath:  output,
		InputDigest: digest,
		Status:      statusFor(err),
		TargetRate:  opts.TargetRate.String(),
		Duration:    elapsed,
	}
	if res != nil {
		entry.Captions = len(res.Captions)
		entry.Skipped = res.Skipped
		entry.Discarded = res.Discarded
		entry.Records = res.Records
		entry.SourceRate = res.SourceRate.String()
		entry.CodePage = res.CodePage.String()
		entry.Message = strings.Join(res.Warnings, "; ")
	}
	if err != nil {
		entry.Message = err.Error()
	}
	return entry
}

// recordHistory is best effort: a ledger failure never fails a conversion.
func recordHistory(ctx context.Context, store *history.Store, logger *slog.Logger, entry history.Entry) {
	if store == nil {
		return
	}
	if entry.InputDigest == "" {
		entry.InputDigest = history.Digest(nil)
	}
	if _, err := store.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.String(logging.FieldFile, entry.SourcePath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db"),
			logging.String(logging.FieldImpact, "conversion missing from history"),
		)
	}
}

// openHistoryOrWarn returns nil when the ledger cannot be opened.
func openHistoryOrWarn(ctx *commandContext, logger *slog.Logger) *history.Store {
	store, err := ctx.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db"),
			logging.String(logging.FieldImpact, "conversions in this run are not recorded"),
		)
		return nil
	}
	return store
}
