package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/psiscan/internal/config"
	"github.com/nao1215/psiscan/internal/cv"
	"github.com/nao1215/psiscan/internal/log"
	"github.com/nao1215/psiscan/internal/model"
	"github.com/nao1215/psiscan/internal/pipeline"
	"github.com/nao1215/psiscan/internal/report"
	"github.com/spf13/cobra"
)

// Environment variables read by the scan command.
const (
	envNERURL    = "PSISCAN_NER_URL"
	envNERAPIKey = "PSISCAN_NER_API_KEY"
	envSentryDSN = "SENTRY_DSN"
)

// ErrSkippedFiles is returned in strict mode when any file was skipped.
var ErrSkippedFiles = errors.New("one or more files were skipped")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Extract and anonymize PSI from a directory of CVs",
		Long: `Scan reads every .json file in dir (default: resources/CVs) in file-name
order. For each CV it prints the personally sensitive information found and
an anonymized copy:

  PSI for cv1.json: {First Name: John, Last Name: Smith, ...}
  Anonymized PSI for cv1.json: {First Name: ****, Last Name: *****, ...}

Files that cannot be read or parsed are reported and skipped. A recognizer
failure stops the run.

The default onnx backend is only present in binaries built with -tags onnx.
Other builds need --ner http or --ner gazetteer.

Examples:
  # Scan the default directory with the local ONNX model
  psiscan scan

  # Use only the personal statement and a remote recognizer
  psiscan scan --statement --ner http --ner-url http://localhost:8000 ./cvs

  # Model labels education as EDUCATION
  psiscan scan --education-label EDUCATION ./cvs

  # Reproducible anonymization, Markdown report to a file
  psiscan scan --seed 42 -m -o report.md ./cvs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .psiscan in current or home directory)")

	cmd.Flags().Bool("statement", false,
		"Use only the first PersonalStatement entry instead of every section")
	cmd.Flags().String("ner", config.DefaultNERBackend,
		"NER backend: onnx (needs a -tags onnx build), http or gazetteer")
	cmd.Flags().String("model-dir", "",
		"Directory of the local NER model (default: $XDG_DATA_HOME/psiscan/model)")
	cmd.Flags().String("ner-url", "",
		"Base URL of a remote NER service (env: "+envNERURL+")")
	cmd.Flags().String("education-label", "",
		"Recognizer label that marks education entities (default: EDU)")
	cmd.Flags().Int64("seed", 0,
		"Seed for reproducible synthetic names and locations")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().Bool("strict", false,
		"Exit with an error if any file was skipped")
	cmd.Flags().String("sentry-dsn", "",
		"Report skipped files and failures to Sentry (env: "+envSentryDSN+")")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScan(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers defaults, environment, config file and flags, in that
// order, into one Config.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if v := os.Getenv(envNERURL); v != "" {
		cfg.NER.URL = v
	}
	if v := os.Getenv(envNERAPIKey); v != "" {
		cfg.NER.APIKey = v
	}
	if v := os.Getenv(envSentryDSN); v != "" {
		cfg.SentryDSN = v
	}

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; otherwise a missing file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.InputDir = args[0]
	}

	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("statement") {
		statement, err := flags.GetBool("statement")
		if err != nil {
			return err
		}
		if statement {
			cfg.TextSource = config.TextSourceStatement
		} else {
			cfg.TextSource = config.TextSourceSections
		}
	}

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"ner", &cfg.NER.Backend},
		{"model-dir", &cfg.NER.ModelDir},
		{"ner-url", &cfg.NER.URL},
		{"output", &cfg.ReportFile},
		{"sentry-dsn", &cfg.SentryDSN},
	}
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if flags.Changed("education-label") {
		label, err := flags.GetString("education-label")
		if err != nil {
			return err
		}
		cfg.Labels.Education = []string{label}
	}

	if flags.Changed("seed") {
		seed, err := flags.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = &seed
	}

	var err error
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.Strict, err = flags.GetBool("strict"); err != nil {
		return err
	}
	return nil
}

// runScan processes every CV in cfg.InputDir and writes the report to out,
// or to cfg.ReportFile when set.
func runScan(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) (err error) {
	notifier, err := log.NewSentryNotifier(cfg.SentryDSN, log.WithRelease(getVersion()))
	if err != nil {
		return err
	}
	defer notifier.Flush()
	defer func() {
		if err != nil && !errors.Is(err, ErrSkippedFiles) {
			notifier.Fatal(err)
		}
	}()

	docs, err := cv.Load(ctx, cfg.InputDir, cv.WithLogger(logger))
	if err != nil {
		return err
	}

	recognizer, err := newRecognizer(cfg, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrRecognition, err)
	}
	defer func() {
		if cerr := recognizer.Close(); cerr != nil {
			logger.Warn("failed to close recognizer", "error", cerr)
		}
	}()

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithTextSource(pipeline.TextSource(cfg.TextSource)),
		pipeline.WithHonorifics(cfg.Honorifics...),
		pipeline.WithLabels(cfg.Labels.Map()),
	}
	if cfg.Seed != nil {
		opts = append(opts, pipeline.WithSeed(*cfg.Seed))
	}
	p, err := pipeline.Default(recognizer, opts...)
	if err != nil {
		return err
	}

	if cfg.ReportFile != "" {
		f, ferr := createReportFile(cfg.ReportFile)
		if ferr != nil {
			return ferr
		}
		defer closeReportFile(f, &err)
		out = f
	}
	writer := newReportWriter(cfg, out)

	logger.Info("starting scan",
		"input", cfg.InputDir,
		"recognizer", recognizer.Name(),
		"text_source", cfg.TextSource,
		"steps", p.StepCount(),
	)

	run := model.NewRun(cfg.InputDir, recognizer.Name())
	for doc, loadErr := range docs {
		var res *model.FileResult

		var parseErr *cv.ParseError
		switch {
		case loadErr == nil:
			res, err = p.Process(ctx, doc)
			if err != nil {
				return err
			}
		case errors.As(loadErr, &parseErr):
			logger.Warn("skipping file",
				"file", doc.Name,
				"error", parseErr.Err,
			)
			res = model.NewFileResult(doc.Name, nil)
			res.MarkSkipped(parseErr.Err)
		default:
			return loadErr
		}

		if res.Skipped {
			notifier.FileSkipped(res.File, res.Err)
		}
		run.Add(res)
		if _, err := writer.WriteResult(res); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	run.Finish()

	if _, err := writer.Write(run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Info("scan complete",
		"processed", run.ProcessedCount(),
		"skipped", run.SkippedCount(),
	)

	if cfg.Strict && run.SkippedCount() > 0 {
		return fmt.Errorf("%w: %d of %d", ErrSkippedFiles, run.SkippedCount(), len(run.Results))
	}
	return nil
}

// createReportFile opens path for writing, creating parent directories.
func createReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports hold PSI.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user-provided output path
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// closeReportFile closes the report and, when nothing else failed, reports
// the close error through errp.
func closeReportFile(c io.Closer, errp *error) {
	if cerr := c.Close(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("failed to close output file: %w", cerr)
	}
}

func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}
