// Package interp runs the single-letter command language that drives a seq.Ints:
//
//	a  append the counter, then increment it
//	b  increment the counter
//	c  drop the last element if there is one, then increment the counter
//
// Any other character, or the end of input, stops the run. The recorded values
// are then printed as a comma-separated list terminated by ";\n" and the
// sequence storage is released.
package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"golang.org/x/text/transform"

	"github.com/joshuapare/ringalloc/alloc"
	"github.com/joshuapare/ringalloc/seq"
)

// Command letters.
const (
	CmdAppend = 'a'
	CmdBump   = 'b'
	CmdDrop   = 'c'
)

// allocFailedMsg is written to the output when the sequence cannot grow.
const allocFailedMsg = "Memory allocation failed\n"

// Options configures a run. A nil *Options uses the defaults.
type Options struct {
	// Encoding names the input encoding; see Decoder. Defaults to UTF-8.
	Encoding string

	// Logger receives one debug record per command. Defaults to discarding.
	Logger *slog.Logger
}

// Result summarises a run.
type Result struct {
	Values   []int32 `json:"values"`
	Counter  int32   `json:"counter"`
	Commands int     `json:"commands"`
	Stop     string  `json:"stop"` // "eof" or the rune that ended the run
}

// Run reads commands from r, writes the recorded values to w and releases the
// sequence storage back to h.
func Run(r io.Reader, w io.Writer, h alloc.Heap, opts *Options) (Result, error) {
	var res Result
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dec, err := Decoder(opts.Encoding)
	if err != nil {
		return res, err
	}
	in := bufio.NewReader(transform.NewReader(r, dec))

	s, err := seq.New(h)
	if err != nil {
		return res, allocFailed(w, err)
	}

	var counter int32
	res.Stop = "eof"
loop:
	for {
		cmd, _, err := in.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = s.Release()
			return res, fmt.Errorf("interp: read command: %w", err)
		}

		switch cmd {
		case CmdAppend:
			if err := s.Append(counter); err != nil {
				_ = s.Release()
				return res, allocFailed(w, err)
			}
		case CmdBump:
		case CmdDrop:
			s.Pop()
		default:
			res.Stop = strconv.QuoteRune(cmd)
			break loop
		}
		counter++
		res.Commands++
		logger.Debug("command", "cmd", string(cmd), "counter", counter, "len", s.Len(), "cap", s.Cap())
	}

	res.Values = s.Values()
	res.Counter = counter

	if err := Format(w, res.Values); err != nil {
		_ = s.Release()
		return res, fmt.Errorf("interp: write output: %w", err)
	}
	if err := s.Release(); err != nil {
		return res, fmt.Errorf("interp: %w", err)
	}
	return res, nil
}

// Format writes values as "v1,v2,...;\n".
func Format(w io.Writer, values []int32) error {
	bw := bufio.NewWriter(w)
	var scratch []byte
	for i, v := range values {
		if i > 0 {
			bw.WriteByte(',')
		}
		scratch = strconv.AppendInt(scratch[:0], int64(v), 10)
		bw.Write(scratch)
	}
	bw.WriteString(";\n")
	return bw.Flush()
}

func allocFailed(w io.Writer, err error) error {
	_, _ = io.WriteString(w, allocFailedMsg)
	return fmt.Errorf("interp: %w", err)
}
