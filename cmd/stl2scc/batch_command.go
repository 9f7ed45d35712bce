package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"stl2scc/internal/config"
	"stl2scc/internal/convert"
	"stl2scc/internal/history"
	"stl2scc/internal/logging"
	"stl2scc/internal/textutil"
)

const batchLockName = ".stl2scc.lock"

type batchFile struct {
	input  string
	output string
	digest string
	logger *slog.Logger
	// skipped is set when history shows the same input already written here.
	skipped bool
	readErr error
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var flags conversionFlags
	var outDir string
	var workers int
	var skipUnchanged bool
	var allowEmpty bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "batch <file.stl|dir>...",
		Short: "Convert many STL files concurrently",
		Long: "Convert every given STL file, and every *.stl file inside given directories,\n" +
			"into --out-dir. A lock file in the output directory keeps two batch runs from\n" +
			"writing there at once.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "batch")
			merged, opts, err := flags.apply(cfg)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = merged.Batch.Workers
			}

			inputs, err := collectInputs(args)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return errors.New("no STL files found")
			}

			if outDir != "" {
				if outDir, err = config.ExpandPath(outDir); err != nil {
					return err
				}
			}
			lockDir := outDir
			if lockDir == "" {
				lockDir = filepath.Dir(inputs[0])
			}
			if err := os.MkdirAll(lockDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			lock := flock.New(filepath.Join(lockDir, batchLockName))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire output lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another batch is writing to %s", lockDir)
			}
			defer func() { _ = lock.Unlock() }()

			store := openHistoryOrWarn(ctx, logger)
			if store != nil {
				defer store.Close()
			}

			files := make([]*batchFile, len(inputs))
			var jobs []convert.Job
			var jobFiles []*batchFile
			for i, input := range inputs {
				f := &batchFile{input: input, output: outputPathFor(input, outDir, merged.Output.Extension)}
				files[i] = f
				data, err := os.ReadFile(input)
				if err != nil {
					f.readErr = fmt.Errorf("read %s: %w", input, err)
					continue
				}
				f.digest = history.Digest(data)
				f.logger = logger.With(
					logging.String(logging.FieldFile, input),
					logging.String(logging.FieldDigest, history.ShortDigest(f.digest)),
				)
				if skipUnchanged && store != nil {
					prev, err := store.LatestConverted(cmd.Context(), f.digest, f.output)
					if err != nil {
						f.logger.Debug("history lookup failed", logging.Error(err))
					}
					if prev != nil && fileExists(f.output) {
						f.skipped = true
						continue
					}
				}
				jobs = append(jobs, convert.Job{Path: input, Data: data, Observer: logging.NewObserver(f.logger)})
				jobFiles = append(jobFiles, f)
			}
			if err := checkOutputCollisions(files); err != nil {
				return err
			}

			logger.Info("batch started",
				logging.Int("files", len(files)),
				logging.Int("queued", len(jobs)),
				logging.Int("workers", workers),
			)
			sampler := logging.NewProgressSampler(10)
			outcomes := convert.BatchWithProgress(cmd.Context(), jobs, workers, opts, func(_ convert.Outcome, done, total int) {
				if sampler.ShouldLog(done, total) {
					logger.Info("batch progress", logging.Int("done", done), logging.Int("total", total))
				}
			})
			byInput := make(map[string]convert.Outcome, len(outcomes))
			for i, out := range outcomes {
				byInput[jobFiles[i].input] = out
			}

			summary := make([]batchRow, 0, len(files))
			failures := 0
			for _, f := range files {
				row := batchRow{Input: f.input, Output: f.output}
				switch {
				case f.readErr != nil:
					row.Status = string(history.StatusFailed)
					row.Message = f.readErr.Error()
					failures++
				case f.skipped:
					row.Status = string(history.StatusUnchanged)
					recordHistory(cmd.Context(), store, f.logger, history.Entry{
						RunID:       ctx.runID,
						SourcePath:  f.input,
						OutputPath:  f.output,
						InputDigest: f.digest,
						Status:      history.StatusUnchanged,
					})
				default:
					out := byInput[f.input]
					row = finishBatchFile(cmd, ctx, store, opts, f, out, allowEmpty)
					if row.Status == string(history.StatusFailed) || (row.Status == string(history.StatusEmpty) && !allowEmpty) {
						failures++
					}
				}
				summary = append(summary, row)
			}

			if jsonOutput {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else {
				renderBatchSummary(cmd.OutOrStdout(), summary)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed", failures, len(files))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Directory for SCC files (default: next to each input)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Concurrent conversions (default: batch.workers)")
	cmd.Flags().BoolVar(&skipUnchanged, "skip-unchanged", false, "Skip inputs whose digest was already converted to the same output")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Write header-only SCC files when no captions survive")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	return cmd
}

type batchRow struct {
	Input    string `json:"input"`
	Output   string `json:"output,omitempty"`
	Status   string `json:"status"`
	Captions int    `json:"captions"`
	Skipped  int    `json:"skipped_records"`
	Message  string `json:"message,omitempty"`
}

func finishBatchFile(cmd *cobra.Command, ctx *commandContext, store *history.Store, opts convert.Options, f *batchFile, out convert.Outcome, allowEmpty bool) batchRow {
	row := batchRow{Input: f.input, Output: f.output}
	entry := entryFor(ctx.runID, f.input, f.output, f.digest, opts, out.Result, out.Err, out.Duration)
	if out.Result != nil {
		row.Captions = len(out.Result.Captions)
		row.Skipped = out.Result.Skipped
	}

	write := out.Err == nil || (convert.IsEmpty(out.Err) && allowEmpty)
	if write {
		if err := writeOutput(f.output, out.Result.Output); err != nil {
			entry.Status = history.StatusFailed
			entry.Message = err.Error()
		}
	} else {
		entry.OutputPath = ""
		row.Output = ""
	}
	recordHistory(cmd.Context(), store, f.logger, entry)

	row.Status = string(entry.Status)
	switch {
	case entry.Status == history.StatusEmpty && allowEmpty:
		logging.WarnWithContext(f.logger, "no displayable captions; wrote empty document", "empty_result",
			logging.String(logging.FieldImpact, "output contains only the SCC header"),
		)
	case entry.Status == history.StatusFailed || entry.Status == history.StatusEmpty:
		row.Message = entry.Message
		empty := entry.Status == history.StatusEmpty
		logging.ErrorWithContext(f.logger, "conversion failed", "conversion_failed",
			logging.String("status", row.Status),
			logging.String("reason", entry.Message),
			logging.String(logging.FieldErrorHint, textutil.Ternary(empty,
				"rerun with --allow-empty to write header-only output",
				"run 'stl2scc inspect' on the file for details")),
		)
	default:
		f.logger.Info("converted",
			logging.String(logging.FieldOutput, f.output),
			logging.Int("captions", row.Captions),
			logging.Duration("elapsed", out.Duration),
		)
	}
	return row
}

// collectInputs expands directories to their *.stl files (case-insensitive,
// not recursive) and drops duplicates.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		inputs = append(inputs, path)
	}
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", arg, err)
		}
		var names []string
		for _, entry := range entries {
			if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".stl") {
				names = append(names, entry.Name())
			}
		}
		slices.Sort(names)
		for _, name := range names {
			add(filepath.Join(path, name))
		}
	}
	return inputs, nil
}

func checkOutputCollisions(files []*batchFile) error {
	owners := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := owners[f.output]; ok {
			return fmt.Errorf("%s and %s would both write %s", prev, f.input, f.output)
		}
		owners[f.output] = f.input
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func renderBatchSummary(w io.Writer, rows []batchRow) {
	headers := []string{"Input", "Status", "Captions", "Skipped", "Output / Message"}
	table := make([][]string, 0, len(rows))
	counts := map[string]int{}
	for _, row := range rows {
		detail := row.Output
		if row.Message != "" {
			detail = row.Message
		}
		table = append(table, []string{
			filepath.Base(row.Input),
			row.Status,
			strconv.Itoa(row.Captions),
			strconv.Itoa(row.Skipped),
			detail,
		})
		counts[row.Status]++
	}
	writeTable(w, headers, table, []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft})
	fmt.Fprintf(w, "%d converted, %d unchanged, %d empty, %d failed\n",
		counts[string(history.StatusConverted)],
		counts[string(history.StatusUnchanged)],
		counts[string(history.StatusEmpty)],
		counts[string(history.StatusFailed)],
	)
}
