package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one CLI invocation; history entries share it.
	FieldRunID = "run_id"
	// FieldFile is the input STL path being converted.
	FieldFile = "file"
	// FieldOutput is the SCC path being written.
	FieldOutput = "output"
	// FieldDigest is the BLAKE3 digest of the input.
	FieldDigest = "digest"
	// FieldRecord is the zero-based TTI block index.
	FieldRecord = "record"
	// FieldOffset is the absolute byte offset of a TTI block.
	FieldOffset = "offset"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact states the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type fileKey struct{}

// ContextWithFile tags ctx with the input path being converted.
func ContextWithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey{}, path)
}

// FileFromContext returns the input path set by ContextWithFile.
func FileFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	path, ok := ctx.Value(fileKey{}).(string)
	return path, ok && path != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if path, ok := FileFromContext(ctx); ok {
		return []slog.Attr{slog.String(FieldFile, path)}
	}
	return nil
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
