package gen

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestFillSubstitutesKnownPlaceholders(t *testing.T) {
	rules := map[string]Rule{
		"Name": func(*rand.Rand) string { return "world" },
	}

	got := fill("hello {Name}!", testRNG(), rules)
	if got != "hello world!" {
		t.Errorf("got %q, want %q", got, "hello world!")
	}
}

func TestFillUnknownPlaceholderPassesThrough(t *testing.T) {
	got := fill("value {Nope} here", testRNG(), DefaultTables().Rules)
	if got != "value {Nope} here" {
		t.Errorf("unknown placeholder altered: %q", got)
	}
}

func TestFillUnterminatedBracePassesThrough(t *testing.T) {
	got := fill("dangling {Name", testRNG(), nil)
	if got != "dangling {Name" {
		t.Errorf("unterminated brace altered: %q", got)
	}
}

func TestFillRepeatedPlaceholderRedrawn(t *testing.T) {
	hexRe := regexp.MustCompile(`^[0-9a-f]{8} [0-9a-f]{8}$`)

	// Two occurrences both get valid ids; over a few attempts they must
	// differ at least once, proving each occurrence is redrawn.
	rng := testRNG()
	rules := DefaultTables().Rules
	differed := false
	for i := 0; i < 10; i++ {
		got := fill("{RequestId} {RequestId}", rng, rules)
		if !hexRe.MatchString(got) {
			t.Fatalf("occurrence not a hex id: %q", got)
		}
		parts := strings.Fields(got)
		if parts[0] != parts[1] {
			differed = true
		}
	}
	if !differed {
		t.Error("repeated placeholder never produced distinct values")
	}
}

// A substituted value containing braces must not be re-scanned. {Params}
// expands to a braced literal, which has to survive verbatim.
func TestFillDoesNotRescanSubstitutedText(t *testing.T) {
	got := fill("args {Params} end", testRNG(), DefaultTables().Rules)
	want := `args {id: 123, type: "full"} end`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFillMultipleDistinctPlaceholders(t *testing.T) {
	rules := map[string]Rule{
		"A": func(*rand.Rand) string { return "1" },
		"B": func(*rand.Rand) string { return "2" },
	}

	got := fill("{A}-{B}-{A}", testRNG(), rules)
	if got != "1-2-1" {
		t.Errorf("got %q, want %q", got, "1-2-1")
	}
}

func TestDefaultRuleShapes(t *testing.T) {
	rng := testRNG()
	rules := DefaultTables().Rules

	checks := map[string]*regexp.Regexp{
		"RequestId": regexp.MustCompile(`^[0-9a-f]{8}$`),
		"UserId":    regexp.MustCompile(`^user_[1-9]\d{3}$`),
		"Duration":  regexp.MustCompile(`^\d{1,4}$`),
		"Key":       regexp.MustCompile(`^cache:(user|session|config):[0-9a-f]{8}$`),
		"FileName":  regexp.MustCompile(`^(data|export|import|report)_[0-9a-f]{8}\.csv$`),
		"Percent":   regexp.MustCompile(`^(7\d|8\d|9[0-5])$`),
	}

	for name, re := range checks {
		rule, ok := rules[name]
		if !ok {
			t.Fatalf("missing rule %s", name)
		}
		for i := 0; i < 50; i++ {
			if v := rule(rng); !re.MatchString(v) {
				t.Errorf("rule %s produced %q, want match for %s", name, v, re)
				break
			}
		}
	}
}
