package markdown

import (
	"strings"

	"github.com/wrenote/wikid/internal/span"
)

// Wikilink is a single `[[target]]` or `[[target|alias]]` reference.
type Wikilink struct {
	// Target is the trimmed target text.
	Target string

	// Alias is the trimmed display text, if the wikilink carried a "|".
	Alias string

	// HasAlias reports whether the wikilink carried a "|" separator, since
	// an alias could legitimately be an empty string after trimming.
	HasAlias bool

	// Range covers the entire "[[...]]" span, including brackets.
	Range span.Range

	// TargetRange covers only the raw target text: from just after "[["
	// to the "|" (if aliased) or the closing "]]". Renaming a wikilink's
	// target replaces exactly this span.
	TargetRange span.Range
}

// ParseWikilinks locates every wikilink in text. Ranges are non-overlapping
// and returned in document order.
//
// The scan is a small state machine (Text, Inside) run independently over
// each line: "[[" enters Inside recording the start position, "]]" closes
// and emits a record, and reaching end-of-line while Inside abandons the
// match (equivalent to spec's "newline inside Inside" rule, since a
// wikilink can never legitimately span a line break). An unmatched "[[" is
// silently discarded and scanning resumes just past it. Nested "[[" is not
// special-cased: it is ordinary target/alias text until the first "]]".
func ParseWikilinks(text string) []Wikilink {
	var out []Wikilink
	for lineNum, line := range strings.Split(text, "\n") {
		out = append(out, scanLine(line, lineNum)...)
	}
	return out
}

func scanLine(line string, lineNum int) []Wikilink {
	runes := []rune(line)
	var out []Wikilink

	i := 0
	for i < len(runes) {
		if !(runes[i] == '[' && i+1 < len(runes) && runes[i+1] == '[') {
			i++
			continue
		}

		start := i
		pipe := -1
		j := i + 2
		closed := false
		for j < len(runes) {
			if runes[j] == '|' && pipe == -1 {
				pipe = j
			}
			if runes[j] == ']' && j+1 < len(runes) && runes[j+1] == ']' {
				closed = true
				break
			}
			j++
		}

		if !closed {
			// Unmatched "[[": discard and continue scanning right after it.
			i += 2
			continue
		}

		targetRawEnd := j
		if pipe != -1 {
			targetRawEnd = pipe
		}

		var target, alias string
		hasAlias := pipe != -1
		if hasAlias {
			target = strings.TrimSpace(string(runes[start+2 : pipe]))
			alias = strings.TrimSpace(string(runes[pipe+1 : j]))
		} else {
			target = strings.TrimSpace(string(runes[start+2 : j]))
		}

		end := j + 2
		if target != "" {
			out = append(out, Wikilink{
				Target:   target,
				Alias:    alias,
				HasAlias: hasAlias,
				Range: span.Range{
					Start: span.Position{Line: lineNum, Character: start},
					End:   span.Position{Line: lineNum, Character: end},
				},
				TargetRange: span.Range{
					Start: span.Position{Line: lineNum, Character: start + 2},
					End:   span.Position{Line: lineNum, Character: targetRawEnd},
				},
			})
		}
		i = end
	}

	return out
}
