package logging

import (
	"context"
	"log/slog"

	"stl2scc/internal/caption"
	"stl2scc/internal/convert"
	"stl2scc/internal/language"
	"stl2scc/internal/stl"
)

// Observer logs conversion events. Captions and discards log at debug,
// skipped records at warn, and the summary at info.
type Observer struct {
	logger *slog.Logger
}

var _ convert.Observer = (*Observer)(nil)

// NewObserver returns an Observer writing to logger.
func NewObserver(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = NewNop()
	}
	return &Observer{logger: logger}
}

func (o *Observer) OnHeader(info convert.HeaderInfo) {
	attrs := []Attr{
		String("disk_format", info.Header.DiskFormatCode),
		String("source_rate", info.SourceRate),
		String("code_page", info.CodePage),
		Int("total_subtitles", info.Header.TotalSubtitles),
	}
	if title := info.Header.ProgrammeTitle; title != "" {
		attrs = append(attrs, String("title", title))
	}
	if lc := info.Header.LanguageCode; lc != "" {
		attrs = append(attrs, String("language", language.ToISO3(lc)))
	}
	if info.Offset != "" {
		attrs = append(attrs, String("start_offset", info.Offset))
	}
	o.logger.Debug("stl header parsed", Args(attrs...)...)
}

func (o *Observer) OnCaption(c caption.Caption) {
	if !o.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	o.logger.Debug("caption",
		Int(FieldRecord, c.Index),
		String("start", c.Start.String()),
		String("end", c.End.String()),
		String("mode", c.Mode.String()),
		String("text", c.Text()),
	)
}

func (o *Observer) OnDiscard(rec stl.Record, reason string) {
	o.logger.Debug("record discarded",
		Int(FieldRecord, rec.Index),
		Int(FieldOffset, rec.Offset),
		String("reason", reason),
	)
}

func (o *Observer) OnSkip(err *convert.RecordError) {
	WarnWithContext(o.logger, "record skipped", "record_skipped",
		Int(FieldRecord, err.Index),
		Int(FieldOffset, err.Offset),
		Error(err.Err),
		String(FieldErrorHint, "check the timecode encoding (input.timecode_encoding)"),
		String(FieldImpact, "caption omitted from output"),
	)
}

func (o *Observer) OnDone(res *convert.Result) {
	for _, warning := range res.Warnings {
		WarnWithContext(o.logger, warning, "conversion_warning",
			String(FieldImpact, "output produced with fallback settings"),
		)
	}
	o.logger.Info("stl parsed",
		Int("records", res.Records),
		Int("captions", len(res.Captions)),
		Int("skipped", res.Skipped),
		Int("discarded", res.Discarded),
	)
}
