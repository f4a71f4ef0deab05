package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ringalloc/alloc"
	"github.com/joshuapare/ringalloc/alloc/verify"
)

var (
	demoSizes     []int
	demoFreeEvery int
)

func init() {
	cmd := newDemoCmd()
	cmd.Flags().IntSliceVar(&demoSizes, "sizes", []int{8, 24, 100, 8, 64}, "Allocation sizes in bytes")
	cmd.Flags().IntVar(&demoFreeEvery, "free-every", 2, "Release every n-th allocation in the second phase")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show the ring through an allocate / release / reallocate cycle",
		Long: `The demo command allocates each size in --sizes, releases every
--free-every-th allocation, then allocates the sizes again, printing the block
ring after each phase so splitting, coalescing and next-fit reuse are visible.

Example:
  ringctl demo
  ringctl demo --sizes 16,16,16,16 --free-every 2 --region-size 256
  ringctl demo --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

// DemoPhase is one snapshot in the JSON output of ringctl demo.
type DemoPhase struct {
	Phase  string        `json:"phase"`
	Addrs  []alloc.Addr  `json:"addrs,omitempty"`
	Failed int           `json:"failed,omitempty"`
	Cursor alloc.Addr    `json:"cursor"`
	Blocks []alloc.Block `json:"blocks"`
}

func runDemo() error {
	if demoFreeEvery <= 0 {
		return fmt.Errorf("--free-every must be positive, got %d", demoFreeEvery)
	}

	a, cleanup, err := openHeap()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.Init(); err != nil {
		return fmt.Errorf("init region: %w", err)
	}

	var phases []DemoPhase
	snap := func(name string, addrs []alloc.Addr, failed int) error {
		blocks, err := a.Blocks()
		if err != nil {
			return err
		}
		if err := verify.Ring(a); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		phases = append(phases, DemoPhase{Phase: name, Addrs: addrs, Failed: failed, Cursor: a.Cursor(), Blocks: blocks})
		return nil
	}

	allocAll := func() ([]alloc.Addr, int, error) {
		var addrs []alloc.Addr
		failed := 0
		for _, size := range demoSizes {
			p, _, err := a.Alloc(size)
			if errors.Is(err, alloc.ErrNoSpace) {
				failed++
				continue
			}
			if err != nil {
				return nil, 0, err
			}
			addrs = append(addrs, p)
		}
		return addrs, failed, nil
	}

	if err := snap("init", nil, 0); err != nil {
		return err
	}

	addrs, failed, err := allocAll()
	if err != nil {
		return err
	}
	if err := snap("alloc", addrs, failed); err != nil {
		return err
	}

	var released []alloc.Addr
	for i, p := range addrs {
		if i%demoFreeEvery == 0 {
			if err := a.Free(p); err != nil {
				return fmt.Errorf("release 0x%X: %w", p, err)
			}
			released = append(released, p)
		}
	}
	if err := snap("free", released, 0); err != nil {
		return err
	}

	addrs, failed, err = allocAll()
	if err != nil {
		return err
	}
	if err := snap("realloc", addrs, failed); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(phases)
	}
	for _, ph := range phases {
		printInfo("\n== %s ==\n", ph.Phase)
		for _, p := range ph.Addrs {
			printInfo("  0x%X\n", p)
		}
		if ph.Failed > 0 {
			printInfo("  %d allocation(s) did not fit\n", ph.Failed)
		}
		printInfo("  cursor 0x%X\n", ph.Cursor)
		printBlocks(ph.Blocks)
	}
	printVerbose("\nStatistics:\n")
	if verbose {
		printStats(a.Stats())
	}
	return nil
}
