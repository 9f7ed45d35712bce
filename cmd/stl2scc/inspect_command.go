package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stl2scc/internal/config"
	"stl2scc/internal/convert"
	"stl2scc/internal/history"
	"stl2scc/internal/language"
	"stl2scc/internal/logging"
)

type inspectReport struct {
	Path       string            `json:"path"`
	Digest     string            `json:"digest"`
	Header     map[string]string `json:"header"`
	SourceRate string            `json:"source_rate"`
	CodePage   string            `json:"code_page"`
	Records    int               `json:"records"`
	Captions   int               `json:"captions"`
	Skipped    int               `json:"skipped"`
	Discarded  int               `json:"discarded"`
	Warnings   []string          `json:"warnings,omitempty"`
	Errors     []string          `json:"record_errors,omitempty"`
	Lines      []inspectCaption  `json:"caption_list,omitempty"`
}

type inspectCaption struct {
	Record int      `json:"record"`
	Start  string   `json:"start"`
	End    string   `json:"end"`
	Mode   string   `json:"mode"`
	Lines  []string `json:"lines"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var flags conversionFlags
	var showCaptions bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <file.stl>",
		Short: "Show the STL header and how its records decode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			_, opts, err := flags.apply(cfg)
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			opts.Observer = logging.NewObserver(logger.With(logging.String(logging.FieldFile, path)))

			res, err := convert.Convert(cmd.Context(), data, opts)
			if err != nil && !errors.Is(err, convert.ErrEmptyResult) {
				return fmt.Errorf("%s: %w", path, err)
			}
			report := buildInspectReport(path, data, res, showCaptions || jsonOutput)
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			renderInspectReport(cmd, report, showCaptions)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showCaptions, "captions", false, "List every decoded caption")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func buildInspectReport(path string, data []byte, res *convert.Result, withCaptions bool) inspectReport {
	h := res.Header
	report := inspectReport{
		Path:   path,
		Digest: history.Digest(data),
		Header: map[string]string{
			"code_page_number":  h.CodePageNumber,
			"disk_format_code":  h.DiskFormatCode,
			"display_standard":  h.DisplayStandardCode,
			"character_table":   h.CharacterCodeTable,
			"language":          language.Describe(h.LanguageCode),
			"programme_title":   h.ProgrammeTitle,
			"episode_title":     h.EpisodeTitle,
			"creation_date":     h.CreationDate,
			"revision_number":   h.RevisionNumber,
			"total_blocks":      strconv.Itoa(h.TotalBlocks),
			"total_subtitles":   strconv.Itoa(h.TotalSubtitles),
			"max_chars_per_row": strconv.Itoa(h.MaxCharsPerRow),
			"max_rows":          strconv.Itoa(h.MaxRows),
			"programme_start":   h.ProgrammeStartTimecode,
			"signature_matched": strconv.FormatBool(h.SignatureMatched),
		},
		SourceRate: res.SourceRate.String(),
		CodePage:   res.CodePage.String(),
		Records:    res.Records,
		Captions:   len(res.Captions),
		Skipped:    res.Skipped,
		Discarded:  res.Discarded,
		Warnings:   res.Warnings,
	}
	for _, recErr := range res.RecordErrors {
		report.Errors = append(report.Errors, recErr.Error())
	}
	if withCaptions {
		for _, c := range res.Captions {
			report.Lines = append(report.Lines, inspectCaption{
				Record: c.Index,
				Start:  c.Start.String(),
				End:    c.End.String(),
				Mode:   c.Mode.String(),
				Lines:  c.Lines,
			})
		}
	}
	return report
}

var inspectHeaderOrder = []string{
	"disk_format_code", "code_page_number", "display_standard", "character_table",
	"language", "programme_title", "episode_title", "creation_date", "revision_number",
	"total_blocks", "total_subtitles", "max_chars_per_row", "max_rows",
	"programme_start", "signature_matched",
}

func renderInspectReport(cmd *cobra.Command, report inspectReport, showCaptions bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\nDigest: %s\n\n", report.Path, history.ShortDigest(report.Digest))

	rows := make([][]string, 0, len(inspectHeaderOrder)+6)
	for _, key := range inspectHeaderOrder {
		rows = append(rows, []string{key, report.Header[key]})
	}
	rows = append(rows,
		[]string{"source_rate", report.SourceRate},
		[]string{"code_page", report.CodePage},
		[]string{"records", strconv.Itoa(report.Records)},
		[]string{"captions", strconv.Itoa(report.Captions)},
		[]string{"skipped", strconv.Itoa(report.Skipped)},
		[]string{"discarded", strconv.Itoa(report.Discarded)},
	)
	writeTable(out, []string{"Field", "Value"}, rows, nil)

	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	for _, recErr := range report.Errors {
		fmt.Fprintf(out, "skipped: %s\n", recErr)
	}

	if showCaptions && len(report.Lines) > 0 {
		fmt.Fprintln(out)
		captionRows := make([][]string, 0, len(report.Lines))
		for _, c := range report.Lines {
			captionRows = append(captionRows, []string{
				strconv.Itoa(c.Record), c.Start, c.End, c.Mode, strings.Join(c.Lines, " / "),
			})
		}
		writeTable(out, []string{"Record", "Start", "End", "Mode", "Text"}, captionRows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft})
	}
}
