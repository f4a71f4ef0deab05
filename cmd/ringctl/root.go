package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ringalloc/alloc"
	"github.com/joshuapare/ringalloc/cmd/ringctl/logger"
	"github.com/joshuapare/ringalloc/internal/mmfile"
)

// envLogAlloc turns on per-operation allocator logging.
const envLogAlloc = "RINGALLOC_LOG_ALLOC"

const defaultRegionSize = 64 << 10

var (
	// Global flags
	verbose       bool
	quiet         bool
	jsonOut       bool
	logFile       string
	regionSize    int
	regionOffset  int
	regionFile    string
	inputEncoding string
)

var rootCmd = &cobra.Command{
	Use:   "ringctl",
	Short: "Drive and inspect a next-fit ring allocator",
	Long: `ringctl runs workloads against a next-fit allocator laid out over a single
memory region, either anonymous memory or a file-backed mapping, and reports
the resulting block ring.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file")
	rootCmd.PersistentFlags().
		IntVar(&regionSize, "region-size", defaultRegionSize, "Size of the managed region in bytes")
	rootCmd.PersistentFlags().
		IntVar(&regionOffset, "region-offset", 0, "Skip this many bytes so the region starts unaligned")
	rootCmd.PersistentFlags().
		StringVar(&regionFile, "region-file", "", "Back the region with this file instead of anonymous memory")
	rootCmd.PersistentFlags().
		StringVar(&inputEncoding, "input-encoding", "utf-8", "Command input encoding (utf-8, utf-16, utf-16le, utf-16be)")
}

func execute() {
	if err := executeArgs(os.Args[1:]); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// executeArgs runs the root command and closes the log file whether or not the
// command succeeded.
func executeArgs(args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if cerr := closeLogFile(); err == nil {
		err = cerr
	}
	return err
}

// closeLog closes the log file opened by setupLogging. Nil when none is open.
var closeLog func() error

func closeLogFile() error {
	if closeLog == nil {
		return nil
	}
	fn := closeLog
	closeLog = nil
	return fn()
}

func setupLogging() error {
	if err := closeLogFile(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	level := slog.LevelInfo
	if verbose || os.Getenv(envLogAlloc) != "" {
		level = slog.LevelDebug
	}
	fn, err := logger.Init(logger.Options{
		Enabled: verbose || logFile != "" || os.Getenv(envLogAlloc) != "",
		File:    logFile,
		Level:   level,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	closeLog = fn
	return nil
}

// openHeap maps the configured region and wraps it in an allocator. Anonymous
// regions use real addresses; file-backed regions use file offsets so the
// image on disk is self-describing.
func openHeap() (*alloc.Allocator, func() error, error) {
	if regionOffset < 0 || regionOffset >= regionSize {
		return nil, nil, fmt.Errorf("region offset %d outside region of %d bytes", regionOffset, regionSize)
	}

	var (
		mem     []byte
		cleanup func() error
		err     error
	)
	if regionFile != "" {
		mem, cleanup, err = mmfile.Map(regionFile, regionSize)
	} else {
		mem, cleanup, err = mmfile.Anon(regionSize)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("map region: %w", err)
	}

	mem = mem[regionOffset:]
	region := alloc.RegionOf(mem)
	if regionFile != "" {
		region = alloc.NewRegion(alloc.Addr(regionOffset), mem)
	}

	if pad := region.Start % alloc.Alignment; pad != 0 {
		logger.Warn("region start unaligned", "start", fmt.Sprintf("0x%X", region.Start),
			"lost", alloc.Alignment-pad)
	}
	logger.Debug("region",
		"start", fmt.Sprintf("0x%X", region.Start), "end", fmt.Sprintf("0x%X", region.End),
		"file", regionFile)

	a := alloc.New(region, &alloc.Options{Logger: logger.L})
	return a, cleanup, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// openInput returns stdin or the named command file.
func openInput(args []string) (*os.File, error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open commands: %w", err)
	}
	return f, nil
}
