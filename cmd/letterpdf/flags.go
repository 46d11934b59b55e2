package main

import (
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrNoRecordsFile indicates a missing records file argument.
var ErrNoRecordsFile = errors.New("usage: letterpdf [flags] <records.yaml>")

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	recordsPath string

	config     string
	outDir     string
	dateFormat string
	browserBin string
	assetsDir  string
	timeout    time.Duration
	pace       time.Duration
	paceSet    bool

	estimate bool
	quiet    bool
	verbose  bool
	version  bool
}

// parseFlags parses command-line arguments into cliFlags.
func parseFlags(args []string) (*cliFlags, error) {
	flags := &cliFlags{}

	fs := flag.NewFlagSet("letterpdf", flag.ContinueOnError)
	fs.StringVar(&flags.config, "config", "", "config file name or path")
	fs.StringVarP(&flags.outDir, "out", "o", "", "output directory for exported PDFs")
	fs.StringVar(&flags.dateFormat, "date-format", "", "date format for the letter info region (tokens or preset)")
	fs.StringVar(&flags.browserBin, "browser-bin", "", "Chrome/Chromium binary path")
	fs.StringVar(&flags.assetsDir, "assets-dir", "", "directory overriding the embedded letter design")
	fs.DurationVar(&flags.timeout, "timeout", 0, "per-document export timeout")
	fs.DurationVar(&flags.pace, "pace", 0, "delay between batch emissions")
	fs.BoolVar(&flags.estimate, "estimate", false, "print estimated page counts without exporting")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress per-document output")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output with timings")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.paceSet = fs.Changed("pace")

	rest := fs.Args()
	if flags.version {
		return flags, nil
	}
	if len(rest) < 1 {
		return nil, ErrNoRecordsFile
	}
	if len(rest) > 1 {
		return nil, fmt.Errorf("%w: got %d positional arguments", ErrNoRecordsFile, len(rest))
	}
	flags.recordsPath = rest[0]

	return flags, nil
}
