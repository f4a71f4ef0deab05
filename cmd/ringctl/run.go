package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ringalloc/cmd/ringctl/logger"
	"github.com/joshuapare/ringalloc/interp"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [commands-file]",
		Short: "Run a command stream against the allocator",
		Long: `The run command reads single-letter commands from a file or stdin and
records values in a sequence whose storage comes from the allocator:

  a  record the counter, then increment it
  b  increment the counter
  c  drop the last record (if any), then increment the counter

Any other character ends the stream. The records are printed as a
comma-separated list followed by a semicolon.

Example:
  echo -n aacab | ringctl run
  ringctl run commands.txt --region-size 4096
  ringctl run commands.txt --input-encoding utf-16 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

func runRun(args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	if in != os.Stdin {
		defer in.Close()
	}

	a, cleanup, err := openHeap()
	if err != nil {
		return err
	}
	defer cleanup()

	var out io.Writer = os.Stdout
	if jsonOut || quiet {
		out = io.Discard
	}

	res, err := interp.Run(in, out, a, &interp.Options{Encoding: inputEncoding, Logger: logger.L})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	st := a.Stats()
	logger.Info("run complete",
		"commands", res.Commands, "records", len(res.Values),
		"allocs", st.AllocCalls, "frees", st.FreeCalls)

	if jsonOut {
		return printJSON(res)
	}
	printVerbose("commands: %d, counter: %d, stopped at: %s\n", res.Commands, res.Counter, res.Stop)
	return nil
}
