package gen

import (
	"fmt"
	"io"
	"math/rand"
	"time"
)

// TimestampLayout is the fixed millisecond-precision timestamp format.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Layout selects one of the two line arrangements.
type Layout int

const (
	// LayoutStandard renders "<ts> [<TAG>] <component>: <message>".
	LayoutStandard Layout = iota
	// LayoutBracket renders "[<ts> <TAG>] [<component>] <message>".
	LayoutBracket
)

func (l Layout) String() string {
	if l == LayoutBracket {
		return "bracket"
	}
	return "standard"
}

// ParseLayout resolves a layout name from the CLI or profile.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "standard", "":
		return LayoutStandard, nil
	case "bracket":
		return LayoutBracket, nil
	}
	return LayoutStandard, fmt.Errorf("unknown layout %q (want standard or bracket)", s)
}

// Entry is one generated log line before formatting.
type Entry struct {
	Time      time.Time
	Level     Level
	Component string
	Message   string
}

// Options configures a Generator.
type Options struct {
	// Seed, when non-nil, makes the whole run reproducible: the random draw
	// sequence and the clock base are both fixed.
	Seed   *int64
	Layout Layout
	// Tables overrides the built-in reference tables when non-nil.
	Tables *Tables
	// WallClock stamps entries with real time instead of the simulated clock.
	// Used by follow and serve modes where consumers expect live timestamps.
	WallClock bool
}

// Generator owns the random source, the simulated clock and the reference
// tables for one run. It is not safe for concurrent use.
type Generator struct {
	rng       *rand.Rand
	clock     *clock
	tables    Tables
	layout    Layout
	wallClock bool
}

// New creates a Generator. Without a seed the run is time-seeded and
// non-reproducible.
func New(opts Options) *Generator {
	var rng *rand.Rand
	base := time.Now()
	if opts.Seed != nil {
		rng = rand.New(rand.NewSource(*opts.Seed))
		base = seededBase
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	tables := DefaultTables()
	if opts.Tables != nil {
		tables = *opts.Tables
	}

	return &Generator{
		rng:       rng,
		clock:     newClock(rng, base),
		tables:    tables,
		layout:    opts.Layout,
		wallClock: opts.WallClock,
	}
}

// SetTables swaps the reference tables, used on profile hot reload.
func (g *Generator) SetTables(t Tables) {
	g.tables = t
}

// Layout returns the active layout.
func (g *Generator) Layout() Layout {
	return g.layout
}

// Next draws one entry. Draw order is fixed: level, component, template,
// placeholder values in template scan order, then the clock step.
func (g *Generator) Next() Entry {
	level := pickLevel(g.rng, g.tables.Weights)
	component := g.tables.Components[g.rng.Intn(len(g.tables.Components))]
	pool := g.tables.Templates[level]
	message := fill(pool[g.rng.Intn(len(pool))], g.rng, g.tables.Rules)

	e := Entry{
		Level:     level,
		Component: component,
		Message:   message,
	}
	if g.wallClock {
		e.Time = time.Now()
	} else {
		e.Time = g.clock.now
		g.clock.advance(g.rng)
	}
	return e
}

// Format renders an entry in the generator's layout, without a trailing
// newline.
func (g *Generator) Format(e Entry) string {
	ts := e.Time.Format(TimestampLayout)
	if g.layout == LayoutBracket {
		return fmt.Sprintf("[%s %s] [%s] %s", ts, e.Level.Tag(), e.Component, e.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", ts, e.Level.Tag(), e.Component, e.Message)
}

// Line draws and formats the next entry.
func (g *Generator) Line() string {
	return g.Format(g.Next())
}

// Emit writes n formatted lines to w, LF-terminated. When hook is non-nil it
// is invoked for every entry after the write; a hook error aborts the run.
// Returns the number of lines fully written.
func (g *Generator) Emit(w io.Writer, n int, hook func(Entry, string) error) (int, error) {
	for i := 0; i < n; i++ {
		e := g.Next()
		line := g.Format(e)
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return i, fmt.Errorf("write line %d: %w", i+1, err)
		}
		if hook != nil {
			if err := hook(e, line); err != nil {
				return i + 1, err
			}
		}
	}
	return n, nil
}
