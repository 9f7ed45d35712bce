// Package convert is the STL to SCC facade. It parses the header, walks the
// TTI records once, builds captions and encodes the SCC document in memory.
package convert

import (
	"context"
	"errors"
	"fmt"

	"stl2scc/internal/caption"
	"stl2scc/internal/scc"
	"stl2scc/internal/stl"
	"stl2scc/internal/textutil"
	"stl2scc/internal/timecode"
)

// OffsetMode selects what is subtracted from record timecodes.
type OffsetMode int

const (
	// OffsetNone keeps timecodes as stored.
	OffsetNone OffsetMode = iota
	// OffsetHeader subtracts the GSI start-of-programme timecode.
	OffsetHeader
	// OffsetFixed subtracts Options.Offset.
	OffsetFixed
)

// Options configure one conversion. The zero value converts a 25 fps Latin-1
// EBU file to 29.97 non-drop SCC with single control codes; DefaultOptions
// enables doubled control codes.
type Options struct {
	// SourceRate is the STL rate. Zero means 25 unless AutoSourceRate
	// resolves it from the disk format code.
	SourceRate     timecode.Rate
	AutoSourceRate bool
	// CodePage decodes record text. Empty means Latin-1 unless AutoCodePage
	// resolves it from the GSI code page number.
	CodePage     textutil.CodePage
	AutoCodePage bool

	TimecodeEncoding timecode.Encoding
	// Layout defaults to stl.EBU when its HeaderSize is zero.
	Layout        stl.Layout
	LenientHeader bool

	OffsetMode OffsetMode
	Offset     timecode.Timecode

	MaxChars  int
	Sanitizer *textutil.Sanitizer

	TargetRate     timecode.Rate
	Style          timecode.Style
	Alignment      scc.Alignment
	DoubleControls bool
	ClearAtEnd     bool
	Table          *scc.Table

	Observer Observer
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		SourceRate:     timecode.Rate25,
		CodePage:       textutil.Latin1,
		Layout:         stl.EBU,
		MaxChars:       caption.DefaultMaxChars,
		TargetRate:     timecode.Rate2997,
		Style:          timecode.NonDrop,
		DoubleControls: true,
	}
}

// Result is the outcome of a conversion.
type Result struct {
	Output   string
	Captions []caption.Caption
	Header   stl.Header

	SourceRate timecode.Rate
	CodePage   textutil.CodePage

	// Records counts full TTI blocks read.
	Records int
	// Skipped counts records dropped for undecodable timecodes.
	Skipped int
	// Discarded counts records with no displayable text, comments included.
	Discarded int
	// Trailing is the size of an incomplete final block, if any.
	Trailing int

	RecordErrors []*RecordError
	Warnings     []string
}

// Convert turns an STL buffer into an SCC document. A header that does not
// validate fails with ErrInvalidHeader and no output. Records with malformed
// timecodes are skipped and reported in Result. When no captions survive,
// the empty document is returned together with ErrEmptyResult. The context is
// checked between records.
func Convert(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	layout := opts.Layout
	if layout.HeaderSize == 0 {
		layout = stl.EBU
	}
	if err := layout.Validate(); err != nil {
		return nil, wrap(ErrConfiguration, "layout", layout.Name, err)
	}
	sanitizer := opts.Sanitizer
	if sanitizer == nil {
		var err error
		if sanitizer, err = textutil.NewSanitizer(nil); err != nil {
			return nil, wrap(ErrConfiguration, "sanitizer", "", err)
		}
	}

	header, err := stl.ParseHeader(data, layout, !opts.LenientHeader)
	if err != nil {
		return nil, err
	}

	res := &Result{Header: header}
	if !header.SignatureMatched {
		res.Warnings = append(res.Warnings, fmt.Sprintf("signature %q not found; parsing leniently", layout.Signature))
	}
	res.SourceRate = resolveRate(opts, header, res)
	res.CodePage = resolveCodePage(opts, header, res)

	builder := &caption.Builder{
		Sanitizer: sanitizer,
		CodePage:  res.CodePage,
		Rate:      res.SourceRate,
		Encoding:  opts.TimecodeEncoding,
		MaxChars:  opts.MaxChars,
	}
	switch opts.OffsetMode {
	case OffsetHeader:
		start, err := header.ProgrammeStart(res.SourceRate)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("start-of-programme ignored: %v", err))
		} else {
			builder.Offset, builder.HasOffset = start, true
		}
	case OffsetFixed:
		builder.Offset, builder.HasOffset = opts.Offset, true
	}

	info := HeaderInfo{Header: header, SourceRate: res.SourceRate.String(), CodePage: res.CodePage.String()}
	if builder.HasOffset {
		info.Offset = builder.Offset.String()
	}
	obs.OnHeader(info)

	scanner := stl.NewScanner(data, layout)
	for rec := range scanner.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Records++
		if rec.Comment {
			res.Discarded++
			obs.OnDiscard(rec, "comment")
			continue
		}
		c, ok, err := builder.Build(rec)
		if err != nil {
			recErr := &RecordError{Index: rec.Index, Offset: rec.Offset, Err: err}
			res.Skipped++
			res.RecordErrors = append(res.RecordErrors, recErr)
			obs.OnSkip(recErr)
			continue
		}
		if !ok {
			res.Discarded++
			obs.OnDiscard(rec, "empty text")
			continue
		}
		res.Captions = append(res.Captions, c)
		obs.OnCaption(c)
	}
	res.Trailing = scanner.Trailing()
	if res.Trailing > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("dropped %d byte incomplete trailing block", res.Trailing))
	}

	encoder, err := scc.NewEncoder(scc.Options{
		Table:          opts.Table,
		TargetRate:     opts.TargetRate,
		Style:          opts.Style,
		DoubleControls: opts.DoubleControls,
		Alignment:      opts.Alignment,
		ClearAtEnd:     opts.ClearAtEnd,
	})
	if err != nil {
		return nil, wrap(ErrConfiguration, "code table", "", err)
	}
	res.Output, err = encoder.Encode(res.Captions)
	if err != nil {
		return nil, err
	}
	obs.OnDone(res)

	if len(res.Captions) == 0 {
		return res, ErrEmptyResult
	}
	return res, nil
}

func resolveRate(opts Options, header stl.Header, res *Result) timecode.Rate {
	if opts.AutoSourceRate {
		if rate, ok := header.FrameRate(); ok {
			return rate
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("disk format code %q does not name a rate; assuming 25", header.DiskFormatCode))
		return timecode.Rate25
	}
	if opts.SourceRate.Valid() {
		return opts.SourceRate
	}
	return timecode.Rate25
}

func resolveCodePage(opts Options, header stl.Header, res *Result) textutil.CodePage {
	if opts.AutoCodePage {
		if cp, ok := header.CodePage(); ok {
			return cp
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("code page number %q not recognised; assuming latin1", header.CodePageNumber))
		return textutil.Latin1
	}
	if opts.CodePage != "" {
		return opts.CodePage
	}
	return textutil.Latin1
}

// IsEmpty reports whether err only signals an empty result.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}
