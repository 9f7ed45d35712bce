package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stl2scc/internal/config"
	"stl2scc/internal/convert"
	"stl2scc/internal/history"
	"stl2scc/internal/logging"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags conversionFlags
	var outputPath string
	var allowEmpty bool

	cmd := &cobra.Command{
		Use:   "convert <file.stl>",
		Short: "Convert one STL file to SCC",
		Long: "Convert one EBU STL file to a Scenarist SCC file. The output defaults to the\n" +
			"input name with output.extension; use -o - to write to stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			merged, opts, err := flags.apply(cfg)
			if err != nil {
				return err
			}

			input, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			output := outputPath
			if output == "" {
				output = outputPathFor(input, "", merged.Output.Extension)
			} else if output != stdoutPath {
				if output, err = config.ExpandPath(output); err != nil {
					return err
				}
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			digest := history.Digest(data)
			fileLogger := logger.With(
				logging.String(logging.FieldFile, input),
				logging.String(logging.FieldDigest, history.ShortDigest(digest)),
			)
			opts.Observer = logging.NewObserver(fileLogger)

			store := openHistoryOrWarn(ctx, fileLogger)
			if store != nil {
				defer store.Close()
			}

			started := time.Now()
			res, convErr := convert.Convert(cmd.Context(), data, opts)
			elapsed := time.Since(started)
			recordOutput := output
			if output == stdoutPath {
				recordOutput = ""
			}
			entry := entryFor(ctx.runID, input, recordOutput, digest, opts, res, convErr, elapsed)

			switch {
			case convErr == nil:
			case convert.IsEmpty(convErr) && allowEmpty:
				logging.WarnWithContext(fileLogger, "no displayable captions; writing empty document", "empty_result",
					logging.String(logging.FieldImpact, "output contains only the SCC header"),
				)
			case convert.IsEmpty(convErr):
				entry.OutputPath = ""
				recordHistory(cmd.Context(), store, fileLogger, entry)
				return fmt.Errorf("%s: %w; refusing to write output (use --allow-empty)", input, convErr)
			default:
				recordHistory(cmd.Context(), store, fileLogger, entry)
				if errors.Is(convErr, convert.ErrInvalidHeader) {
					return fmt.Errorf("%s: %w (use --lenient or input.layout to relax checks)", input, convErr)
				}
				return fmt.Errorf("%s: %w", input, convErr)
			}

			if err := emit(cmd.OutOrStdout(), output, res.Output); err != nil {
				entry.Status = history.StatusFailed
				entry.Message = err.Error()
				recordHistory(cmd.Context(), store, fileLogger, entry)
				return err
			}
			recordHistory(cmd.Context(), store, fileLogger, entry)

			fileLogger.Info("converted",
				logging.String(logging.FieldOutput, output),
				logging.Int("captions", len(res.Captions)),
				logging.Int("skipped", res.Skipped),
				logging.Duration("elapsed", elapsed),
			)
			if output != stdoutPath {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d captions to %s\n", len(res.Captions), output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "SCC output path (- for stdout)")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Write a header-only SCC file when no captions survive")
	return cmd
}

func emit(stdout io.Writer, path, content string) error {
	if path == stdoutPath {
		_, err := io.WriteString(stdout, content)
		return err
	}
	return writeOutput(path, content)
}
