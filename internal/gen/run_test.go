package gen

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runToFile(t *testing.T, path string, count int, seed int64, layout Layout) []byte {
	t.Helper()

	written, err := Run(RunOptions{
		Count:  count,
		Output: path,
		Layout: layout,
		Seed:   &seed,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if written != count {
		t.Fatalf("wrote %d lines, want %d", written, count)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return data
}

func TestRunWritesExactLineCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	data := runToFile(t, path, 5, 42, LayoutBracket)

	if n := bytes.Count(data, []byte("\n")); n != 5 {
		t.Errorf("output has %d line terminators, want 5", n)
	}
	if bytes.HasSuffix(data, []byte("\n\n")) {
		t.Error("output has a trailing blank line")
	}
	for i, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if !bracketRe.MatchString(line) {
			t.Errorf("line %d does not match bracket grammar: %q", i, line)
		}
	}
}

func TestRunRepeatedSeedByteIdentical(t *testing.T) {
	dir := t.TempDir()
	a := runToFile(t, filepath.Join(dir, "a.log"), 5, 42, LayoutBracket)
	b := runToFile(t, filepath.Join(dir, "b.log"), 5, 42, LayoutBracket)

	if !bytes.Equal(a, b) {
		t.Error("repeated seeded runs are not byte-identical")
	}
}

func TestRunZeroCountCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	data := runToFile(t, path, 0, 1, LayoutStandard)

	if len(data) != 0 {
		t.Errorf("expected empty file, got %d bytes", len(data))
	}
}

func TestRunNegativeCountCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.log")
	if _, err := Run(RunOptions{Count: -1, Output: path}); err == nil {
		t.Fatal("expected error for negative count")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("output file was created despite invalid count")
	}
}

func TestRunUnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "test.log")
	if _, err := Run(RunOptions{Count: 1, Output: path}); err == nil {
		t.Fatal("expected error for unwritable destination")
	}
}

type failingSink struct {
	writes int
	limit  int
}

func (f *failingSink) Write(p []byte) (int, error) {
	f.writes++
	if f.writes > f.limit {
		return 0, errors.New("disk full")
	}
	return len(p), nil
}

func (f *failingSink) Close() error { return nil }

func TestRunReportsMidStreamFailure(t *testing.T) {
	// Big enough count to overflow the bufio buffer and hit the sink.
	_, err := Run(RunOptions{
		Count: 100000,
		Sink:  &failingSink{limit: 1},
	})
	if err == nil {
		t.Fatal("expected mid-stream write failure to surface")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error does not carry the underlying cause: %v", err)
	}
}

func TestRunHookErrorAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hooked.log")
	boom := errors.New("index unavailable")

	calls := 0
	_, err := Run(RunOptions{
		Count:  10,
		Output: path,
		Hook: func(Entry, string) error {
			calls++
			if calls == 3 {
				return boom
			}
			return nil
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("hook called %d times, want 3", calls)
	}
}
