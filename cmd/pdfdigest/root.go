package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdf-digest/internal/config"
	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/infra/pdf"
	"pdf-digest/internal/infra/summarizer"
	"pdf-digest/internal/observability/logging"
	digestUC "pdf-digest/internal/usecase/digest"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// options holds the flags shared by every subcommand.
type options struct {
	output   string
	maxChunk int
	logLevel string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "pdfdigest",
		Short:        "Extract and summarize the text of PDF files",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return fmt.Errorf("invalid --output %q: must be %s or %s", opts.output, outputText, outputJSON)
			}
			if opts.maxChunk < 0 {
				return fmt.Errorf("invalid --max-chunk %d: must not be negative", opts.maxChunk)
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	flags.IntVar(&opts.maxChunk, "max-chunk", 0, "maximum chunk size in characters (0 uses MAX_CHUNK_SIZE)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default LOG_LEVEL)")

	root.AddCommand(
		newRunCmd(opts, "summarize", "Extract, chunk and summarize a PDF", true),
		newRunCmd(opts, "extract", "Extract and chunk a PDF without calling the model", false),
	)

	return root
}

func newRunCmd(opts *options, use, short string, summarize bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file.pdf>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args[0], summarize)
		},
	}
}

// run loads configuration, runs the pipeline on path and writes the result to stdout.
// Logs go to stderr so the output stays machine readable.
func run(ctx context.Context, stdout, stderr io.Writer, opts *options, path string, summarize bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := logging.New(logging.Options{Level: level, Format: logging.FormatText, Output: stderr})

	maxChunk := cfg.Pipeline.MaxChunkSize
	if opts.maxChunk > 0 {
		maxChunk = opts.maxChunk
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Server.RequestTimeout)
	defer cancel()

	// The model is only built when summarize needs it.
	model := summarizer.NewLazy(summarizer.NewLoader(cfg.Summarizer, nil, logger))
	svc := digestUC.NewService(pdf.NewExtractor(logger), model, maxChunk, logger)

	in := digestUC.Input{Filename: filepath.Base(path), Data: data}
	var d *entity.Digest
	if summarize {
		d, err = svc.Digest(ctx, in)
	} else {
		d, err = svc.Extract(ctx, in)
	}
	if err != nil {
		logger.Debug("pipeline failed", slog.Any("error", err))
		return err
	}

	if opts.output == outputJSON {
		return writeJSON(stdout, d)
	}
	return writeText(stdout, d)
}
