// Package logging assembles the structured slog loggers used by stl2scc.
//
// Console output goes to stderr in either a compact human format or JSON.
// When a log directory is configured every record is also appended as JSON
// to a dated file there, tagged with the invocation's run ID so it can be
// matched to history entries. Observer adapts conversion events to log lines.
package logging
