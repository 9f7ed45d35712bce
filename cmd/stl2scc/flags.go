package main

import (
	"strings"

	"github.com/spf13/cobra"

	"stl2scc/internal/config"
	"stl2scc/internal/convert"
)

// conversionFlags override config values for one invocation. Empty strings
// and unset booleans leave the configured value alone.
type conversionFlags struct {
	codePage       string
	sourceRate     string
	encoding       string
	layout         string
	targetRate     string
	style          string
	alignment      string
	codeTable      string
	startOffset    string
	maxChars       int
	lenient        bool
	clearAtEnd     bool
	singleControls bool
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.codePage, "code-page", "", "STL code page (latin1, latin9, cp850, cp437, windows-1252, utf-8, auto)")
	flags.StringVar(&f.sourceRate, "source-rate", "", "STL frame rate (25, 29.97, 30000/1001, auto)")
	flags.StringVar(&f.encoding, "timecode-encoding", "", "STL timecode bytes (binary or bcd)")
	flags.StringVar(&f.layout, "layout", "", "STL record layout (ebu or legacy)")
	flags.StringVar(&f.targetRate, "target-rate", "", "SCC frame rate")
	flags.StringVar(&f.style, "separator-style", "", "SCC timecode separator (nondrop or drop)")
	flags.StringVar(&f.alignment, "alignment", "", "Caption alignment (left or center)")
	flags.StringVar(&f.codeTable, "code-table", "", "YAML EIA-608 code table")
	flags.StringVar(&f.startOffset, "start-offset", "", "Timecode subtracted from every caption (none, auto, HH:MM:SS:FF)")
	flags.IntVar(&f.maxChars, "max-chars", 0, "Maximum characters per caption line (1-32)")
	flags.BoolVar(&f.lenient, "lenient", false, "Accept files whose header signature does not match")
	flags.BoolVar(&f.clearAtEnd, "clear-at-end", false, "Emit an erase code at each caption's end time")
	flags.BoolVar(&f.singleControls, "single-controls", false, "Do not double control codes")
}

// apply copies cfg, overlays the flags, and resolves conversion options.
func (f *conversionFlags) apply(cfg *config.Config) (*config.Config, convert.Options, error) {
	merged := *cfg
	set := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = strings.ToLower(value)
		}
	}
	set(&merged.Input.CodePage, f.codePage)
	set(&merged.Input.FrameRate, f.sourceRate)
	set(&merged.Input.TimecodeEncoding, f.encoding)
	set(&merged.Input.Layout, f.layout)
	set(&merged.Output.FrameRate, f.targetRate)
	set(&merged.Output.SeparatorStyle, f.style)
	set(&merged.Output.Alignment, f.alignment)
	set(&merged.Output.StartOffset, f.startOffset)
	if path := strings.TrimSpace(f.codeTable); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, convert.Options{}, err
		}
		merged.Output.CodeTable = expanded
	}
	if f.maxChars != 0 {
		merged.Output.MaxCharsPerLine = f.maxChars
	}
	if f.lenient {
		merged.Input.StrictHeader = false
	}
	if f.clearAtEnd {
		merged.Output.ClearAtEnd = true
	}
	if f.singleControls {
		merged.Output.DoubleControls = false
	}
	if err := merged.Validate(); err != nil {
		return nil, convert.Options{}, err
	}
	opts, err := merged.ConvertOptions()
	if err != nil {
		return nil, convert.Options{}, err
	}
	return &merged, opts, nil
}
