package caption

import (
	"fmt"

	"stl2scc/internal/stl"
	"stl2scc/internal/textutil"
	"stl2scc/internal/timecode"
)

// Builder converts raw STL records into captions.
type Builder struct {
	Sanitizer *textutil.Sanitizer
	CodePage  textutil.CodePage
	Rate      timecode.Rate
	Encoding  timecode.Encoding
	MaxChars  int
	// Offset is subtracted from both timecodes when HasOffset is set.
	Offset    timecode.Timecode
	HasOffset bool
}

// Build decodes rec. It returns ok=false when the text is empty after
// sanitisation, without looking at the timecodes, and an error wrapping
// timecode.ErrFormat when a timecode field of a non-empty record cannot be
// decoded.
func (b *Builder) Build(rec stl.Record) (Caption, bool, error) {
	mode, text := ExtractDirective(b.CodePage.Decode(rec.Text))
	text = b.Sanitizer.Clean(text)
	if text == "" {
		return Caption{}, false, nil
	}

	start, err := timecode.FromBytes(rec.Start, b.Rate, b.Encoding)
	if err != nil {
		return Caption{}, false, fmt.Errorf("start timecode: %w", err)
	}
	end, err := timecode.FromBytes(rec.End, b.Rate, b.Encoding)
	if err != nil {
		return Caption{}, false, fmt.Errorf("end timecode: %w", err)
	}

	if b.HasOffset {
		start = start.Sub(b.Offset)
		end = end.Sub(b.Offset)
	}
	return Caption{
		Index: rec.Index,
		Start: start,
		End:   end,
		Mode:  mode,
		Lines: Wrap(text, b.MaxChars),
	}, true, nil
}
