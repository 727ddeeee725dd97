package gen

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// RunOptions configures a one-shot run.
type RunOptions struct {
	Count  int
	Output string
	Layout Layout
	Seed   *int64
	Tables *Tables
	// Sink overrides Output when non-nil (remote sinks, tests). Run still
	// closes it.
	Sink io.WriteCloser
	// Hook is invoked per emitted entry (preview, side-index).
	Hook func(Entry, string) error
}

// Run executes the generation loop end to end: open the sink, emit Count
// lines, flush and close. On a mid-stream write failure the partial file is
// left in place, partial fixtures are still useful for debugging.
func Run(opts RunOptions) (int, error) {
	if opts.Count < 0 {
		return 0, fmt.Errorf("line count must be non-negative, got %d", opts.Count)
	}

	sink := opts.Sink
	if sink == nil {
		f, err := os.Create(opts.Output)
		if err != nil {
			return 0, fmt.Errorf("open output: %w", err)
		}
		sink = f
	}

	g := New(Options{
		Seed:   opts.Seed,
		Layout: opts.Layout,
		Tables: opts.Tables,
	})

	w := bufio.NewWriter(sink)
	written, err := g.Emit(w, opts.Count, opts.Hook)
	if err != nil {
		sink.Close()
		return written, err
	}
	if err := w.Flush(); err != nil {
		sink.Close()
		return written, fmt.Errorf("flush output: %w", err)
	}
	if err := sink.Close(); err != nil {
		return written, fmt.Errorf("close output: %w", err)
	}
	return written, nil
}
