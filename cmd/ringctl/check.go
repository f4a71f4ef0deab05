package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ringalloc/alloc"
	"github.com/joshuapare/ringalloc/alloc/verify"
	"github.com/joshuapare/ringalloc/cmd/ringctl/logger"
	"github.com/joshuapare/ringalloc/interp"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [commands-file]",
		Short: "Run a command stream and verify the block ring",
		Long: `The check command runs a command stream like 'run', discards the
printed records, then walks the block ring and verifies its invariants:
a single cycle, exact tiling of the region, aligned sizes, the sentinel,
the cursor and the absence of neighbouring free blocks.

Example:
  ringctl check commands.txt
  ringctl check commands.txt --region-size 2048 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

// CheckReport is the JSON shape of ringctl check.
type CheckReport struct {
	Result interp.Result `json:"result"`
	Stats  alloc.Stats   `json:"stats"`
	Blocks []alloc.Block `json:"blocks"`
	Valid  bool          `json:"valid"`
	Error  string        `json:"error,omitempty"`
}

func runCheck(args []string) error {
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

	res, err := interp.Run(in, io.Discard, a, &interp.Options{Encoding: inputEncoding, Logger: logger.L})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	report := CheckReport{Result: res, Stats: a.Stats(), Valid: true}
	report.Blocks, err = a.Blocks()
	if err != nil {
		return fmt.Errorf("walk ring: %w", err)
	}
	verr := verify.Ring(a)
	if verr != nil {
		logger.Warn("ring invalid", "error", verr)
		report.Valid = false
		report.Error = verr.Error()
	}

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
		return verr
	}

	printInfo("\nRing:\n")
	printBlocks(report.Blocks)
	printInfo("\nStatistics:\n")
	printStats(report.Stats)
	printInfo("\nValidation:\n")
	if verr != nil {
		printInfo("  ✗ %v\n", verr)
		return fmt.Errorf("ring invalid: %w", verr)
	}
	printInfo("  ✓ Ring valid\n")
	return nil
}

func printBlocks(blocks []alloc.Block) {
	printInfo("  %-18s %-18s %8s  %s\n", "HEADER", "PAYLOAD", "SIZE", "STATE")
	for _, b := range blocks {
		state := "used"
		switch {
		case b.Sentinel:
			state = "sentinel"
		case b.Free:
			state = "free"
		}
		printInfo("  0x%-16X 0x%-16X %8d  %s\n", b.Header, b.Payload, b.Size, state)
	}
}

func printStats(st alloc.Stats) {
	printInfo("  Alloc calls:        %d\n", st.AllocCalls)
	printInfo("  Alloc failures:     %d\n", st.AllocFailures)
	printInfo("  Splits:             %d\n", st.Splits)
	printInfo("  Whole blocks:       %d\n", st.WholeBlocks)
	printInfo("  Search coalesces:   %d\n", st.SearchCoalesces)
	printInfo("  Free calls:         %d\n", st.FreeCalls)
	printInfo("  Frees ignored:      %d\n", st.FreeIgnored)
	printInfo("  Forward coalesces:  %d\n", st.CoalesceForward)
	printInfo("  Backward coalesces: %d\n", st.CoalesceBackward)
}
