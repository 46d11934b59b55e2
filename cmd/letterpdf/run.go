package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	letterpdf "github.com/ofuentes/go-letterpdf"
	"github.com/ofuentes/go-letterpdf/internal/config"
)

// Environment bundles the writers run reports through, so tests can
// capture output.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
}

// runSettings is the merged, resolved configuration for one invocation.
// Precedence: CLI flags > environment > config file > defaults.
type runSettings struct {
	outDir     string
	dateFormat string
	browserBin string
	assetsDir  string
	timeout    time.Duration
	pace       time.Duration
	paceSet    bool
}

// run executes the CLI and returns its exit code.
func run(flags *cliFlags, env *Environment) int {
	if flags.version {
		fmt.Fprintf(env.Stdout, "letterpdf %s\n", Version)
		return ExitSuccess
	}

	warnUnknownEnvVars(env.Stderr)

	settings, err := resolveSettings(flags)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	docs, err := loadRecords(flags.recordsPath)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	if flags.estimate {
		return runEstimate(docs, env)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runExport(ctx, docs, settings, flags, env)
}

// resolveSettings merges flags, environment, and config file.
func resolveSettings(flags *cliFlags) (*runSettings, error) {
	envCfg := loadEnvConfig()

	configName := flags.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}

	fileCfg := config.Default()
	if configName != "" {
		loaded, err := config.Load(configName)
		if err != nil {
			return nil, err
		}
		fileCfg = loaded
	}

	fileTimeout, err := fileCfg.ExportTimeout()
	if err != nil {
		return nil, err
	}
	filePace, err := fileCfg.ExportPacing()
	if err != nil {
		return nil, err
	}

	s := &runSettings{
		outDir:     firstNonEmpty(flags.outDir, envCfg.OutputDir, fileCfg.Output.DefaultDir, "."),
		dateFormat: firstNonEmpty(flags.dateFormat, envCfg.DateFormat, fileCfg.Letter.DateFormat),
		browserBin: firstNonEmpty(flags.browserBin, envCfg.BrowserBin, fileCfg.Export.BrowserBin),
		assetsDir:  firstNonEmpty(flags.assetsDir, envCfg.AssetsDir, fileCfg.Letter.AssetsDir),
	}

	if flags.timeout > 0 {
		s.timeout = flags.timeout
	} else if envCfg.Timeout > 0 {
		s.timeout = envCfg.Timeout
	} else {
		s.timeout = fileTimeout
	}

	// Pacing may legitimately be zero, so "was it set" matters.
	switch {
	case flags.paceSet:
		s.pace, s.paceSet = flags.pace, true
	case envCfg.PaceSet:
		s.pace, s.paceSet = envCfg.Pace, true
	case fileCfg.Export.Pacing != "":
		s.pace, s.paceSet = filePace, true
	}

	return s, nil
}

// runEstimate prints the advisory page estimate per document.
func runEstimate(docs []letterpdf.DocumentContent, env *Environment) int {
	estimator, err := letterpdf.NewEstimator()
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	for _, doc := range docs {
		pages := estimator.EstimatePages(doc.BodyText)
		fmt.Fprintf(env.Stdout, "%s: ~%d page(s)\n", doc.Code, pages)
	}
	return ExitSuccess
}

// runExport drives the batch export and reports results.
func runExport(ctx context.Context, docs []letterpdf.DocumentContent, settings *runSettings, flags *cliFlags, env *Environment) int {
	opts := buildOptions(settings)

	exporter, err := letterpdf.NewExporter(opts...)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	defer func() {
		if cerr := exporter.Close(); cerr != nil {
			fmt.Fprintf(env.Stderr, "warning: closing exporter: %v\n", cerr)
		}
	}()

	results, err := exporter.ExportBatch(ctx, docs, settings.outDir)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	return printResults(results, flags.quiet, flags.verbose, env)
}

// buildOptions converts resolved settings into exporter options.
func buildOptions(settings *runSettings) []letterpdf.Option {
	var opts []letterpdf.Option
	if settings.timeout > 0 {
		opts = append(opts, letterpdf.WithTimeout(settings.timeout))
	}
	if settings.paceSet {
		opts = append(opts, letterpdf.WithPacing(settings.pace))
	}
	if settings.browserBin != "" {
		opts = append(opts, letterpdf.WithBrowserBin(settings.browserBin))
	}
	if settings.dateFormat != "" {
		opts = append(opts, letterpdf.WithDateFormat(settings.dateFormat))
	}
	if settings.assetsDir != "" {
		opts = append(opts, letterpdf.WithAssetDir(settings.assetsDir))
	}
	return opts
}

// printResults reports per-document outcomes and the batch summary.
// Returns the exit code.
func printResults(results []letterpdf.BatchResult, quiet, verbose bool, env *Environment) int {
	summary := letterpdf.SummarizeBatch(results)

	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Code, r.Err)
			continue
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Code, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if summary.Failed == 0 {
		return ExitSuccess
	}
	if summary.Succeeded == 0 && summary.Failed == 1 {
		// A single failed document reports its precise class.
		return exitCodeFor(firstErr)
	}
	return ExitGeneral
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
