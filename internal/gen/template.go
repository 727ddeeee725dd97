package gen

import (
	"math/rand"
	"strings"
)

// fill substitutes placeholders in a single left-to-right pass. Each {Name}
// occurrence is redrawn independently, and substituted text is never
// re-scanned, so a value containing braces cannot trigger a second
// substitution. Spans without a matching rule pass through verbatim.
func fill(tmpl string, rng *rand.Rand, rules map[string]Rule) string {
	if !strings.ContainsRune(tmpl, '{') {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl) + 16)

	i := 0
	for i < len(tmpl) {
		open := strings.IndexByte(tmpl[i:], '{')
		if open < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		open += i
		b.WriteString(tmpl[i:open])

		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			b.WriteString(tmpl[open:])
			break
		}
		end += open

		name := tmpl[open+1 : end]
		if rule, ok := rules[name]; ok {
			b.WriteString(rule(rng))
		} else {
			b.WriteString(tmpl[open : end+1])
		}
		i = end + 1
	}

	return b.String()
}
