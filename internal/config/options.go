package config

import (
	"fmt"

	"stl2scc/internal/convert"
	"stl2scc/internal/scc"
	"stl2scc/internal/stl"
	"stl2scc/internal/textutil"
	"stl2scc/internal/timecode"
)

// ConvertOptions resolves the configuration into conversion options. Every
// enumerated value is parsed here, so a failure names the offending key.
// The code table file, when set, is loaded.
func (c *Config) ConvertOptions() (convert.Options, error) {
	opts := convert.DefaultOptions()
	var err error

	if c.Input.CodePage == autoValue {
		opts.AutoCodePage = true
	} else if opts.CodePage, err = textutil.ParseCodePage(c.Input.CodePage); err != nil {
		return opts, fmt.Errorf("input.code_page: %w", err)
	}
	if c.Input.FrameRate == autoValue {
		opts.AutoSourceRate = true
	} else if opts.SourceRate, err = timecode.ParseRate(c.Input.FrameRate); err != nil {
		return opts, fmt.Errorf("input.frame_rate: %w", err)
	}
	if opts.TimecodeEncoding, err = timecode.ParseEncoding(c.Input.TimecodeEncoding); err != nil {
		return opts, fmt.Errorf("input.timecode_encoding: %w", err)
	}
	if opts.Layout, err = stl.LookupLayout(c.Input.Layout); err != nil {
		return opts, fmt.Errorf("input.layout: %w", err)
	}
	opts.LenientHeader = !c.Input.StrictHeader

	if opts.TargetRate, err = timecode.ParseRate(c.Output.FrameRate); err != nil {
		return opts, fmt.Errorf("output.frame_rate: %w", err)
	}
	if opts.Style, err = timecode.ParseStyle(c.Output.SeparatorStyle); err != nil {
		return opts, fmt.Errorf("output.separator_style: %w", err)
	}
	if opts.Alignment, err = scc.ParseAlignment(c.Output.Alignment); err != nil {
		return opts, fmt.Errorf("output.alignment: %w", err)
	}
	opts.MaxChars = c.Output.MaxCharsPerLine
	opts.DoubleControls = c.Output.DoubleControls
	opts.ClearAtEnd = c.Output.ClearAtEnd

	switch c.Output.StartOffset {
	case defaultStartOffset:
		opts.OffsetMode = convert.OffsetNone
	case autoValue:
		opts.OffsetMode = convert.OffsetHeader
	default:
		// A fixed offset is written at the source rate; with an auto source
		// rate it is read at 25 and rescaled per file.
		rate := opts.SourceRate
		if !rate.Valid() {
			rate = timecode.Rate25
		}
		if opts.Offset, err = timecode.Parse(c.Output.StartOffset, rate); err != nil {
			return opts, fmt.Errorf("output.start_offset: %w", err)
		}
		opts.OffsetMode = convert.OffsetFixed
	}

	if c.Output.CodeTable != "" {
		if opts.Table, err = scc.LoadTable(c.Output.CodeTable); err != nil {
			return opts, fmt.Errorf("output.code_table: %w", err)
		}
	}

	if opts.Sanitizer, err = textutil.NewSanitizer(c.Artifacts()); err != nil {
		return opts, fmt.Errorf("sanitize.artifacts: %w", err)
	}
	return opts, nil
}

// Artifacts merges the configured artifact entries over the defaults.
func (c *Config) Artifacts() map[string]string {
	merged := textutil.DefaultArtifacts()
	for glyph, replacement := range c.Sanitize.Artifacts {
		if replacement == keepArtifact {
			delete(merged, glyph)
			continue
		}
		merged[glyph] = replacement
	}
	return merged
}
