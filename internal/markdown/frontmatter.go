// Package markdown implements the single-pass scanner that locates
// wikilinks and frontmatter tags with precise source ranges. The indices,
// diagnostics and rename planner consume its output rather than scanning
// document text themselves.
package markdown

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wrenote/wikid/internal/span"
)

// Frontmatter describes the leading YAML-like block of a document.
type Frontmatter struct {
	// Raw is the frontmatter content between the delimiter lines.
	Raw string

	// EndLine is the 0-indexed line number of the closing "---".
	EndLine int

	// Tags is the frontmatter's tags array, if any.
	Tags []Tag
}

// FrontmatterBounds reports the opening and closing frontmatter line
// indices. Frontmatter is only recognized when the first line is exactly
// "---". If frontmatter is present but never closed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}
	return 0, -1, true
}

// ParseFrontmatter parses the frontmatter block of content, returning nil
// if none is present or it is never closed.
func ParseFrontmatter(text string) *Frontmatter {
	lines := strings.Split(text, "\n")
	_, end, ok := FrontmatterBounds(lines)
	if !ok || end == -1 {
		return nil
	}
	return &Frontmatter{
		Raw:     strings.Join(lines[1:end], "\n"),
		EndLine: end,
		Tags:    ParseTags(text),
	}
}

// DecodeFields best-effort decodes the frontmatter's non-tags keys as a
// generic map, for display purposes only. Parse
// failures are swallowed; scanning must never throw, per the same
// contract the tag/wikilink scanners honor.
func DecodeFields(fm *Frontmatter) map[string]interface{} {
	if fm == nil {
		return nil
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal([]byte(fm.Raw), &data); err != nil {
		return nil
	}
	delete(data, "tags")
	return data
}

// tagsLineRe matches a "tags:" key opening a bracketed array, e.g.
// "tags: [foo, bar]" or "  tags:[foo]".
var tagsLineRe = regexp.MustCompile(`^\s*tags\s*:\s*\[`)

// Tag is a single entry of a frontmatter tags array.
type Tag struct {
	// Name is the tag text, without a leading '#'. May contain '/' for
	// hierarchical tags.
	Name string

	// Range covers only the tag token itself, inside the array.
	Range span.Range
}

// findFirstTagsLine returns the index (within lines) of the first line
// matching tagsLineRe inside the frontmatter body [start+1, end). Duplicate
// "tags:" keys tie-break to the first occurrence.
func findFirstTagsLine(lines []string, start, end int) (int, bool) {
	for i := start + 1; i < end && i < len(lines); i++ {
		if tagsLineRe.MatchString(lines[i]) {
			return i, true
		}
	}
	return 0, false
}

// ParseTags extracts the frontmatter tags array with precise per-token
// ranges. It returns nil when there is no frontmatter, or the frontmatter
// carries no tags key. A malformed or unclosed array is tolerated
// best-effort rather than causing an error.
func ParseTags(text string) []Tag {
	lines := strings.Split(text, "\n")
	start, end, ok := FrontmatterBounds(lines)
	if !ok || end == -1 {
		return nil
	}
	lineIdx, ok := findFirstTagsLine(lines, start, end)
	if !ok {
		return nil
	}
	return parseTagsOnLine(lines[lineIdx], lineIdx)
}

// parseTagsOnLine splits the bracketed interior of a "tags: [...]" line
// into trimmed, column-precise tokens. Empty tokens (from trailing commas
// or "[]") are skipped.
func parseTagsOnLine(line string, lineIdx int) []Tag {
	loc := tagsLineRe.FindStringIndex(line)
	if loc == nil {
		return nil
	}
	open := strings.IndexByte(line[loc[0]:], '[') + loc[0]

	closeOffset := strings.IndexByte(line[open:], ']')
	var interiorEnd int
	if closeOffset == -1 {
		interiorEnd = len(line)
	} else {
		interiorEnd = open + closeOffset
	}

	interior := []rune(line[open+1 : interiorEnd])
	baseCol := open + 1

	var tags []Tag
	tokenStart := 0
	flush := func(tokEnd int) {
		raw := string(interior[tokenStart:tokEnd])
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return
		}
		leading := len(raw) - len(strings.TrimLeft(raw, " \t"))
		startCol := baseCol + tokenStart + leading
		tags = append(tags, Tag{
			Name: trimmed,
			Range: span.Range{
				Start: span.Position{Line: lineIdx, Character: startCol},
				End:   span.Position{Line: lineIdx, Character: startCol + len([]rune(trimmed))},
			},
		})
	}
	for i, r := range interior {
		if r == ',' {
			flush(i)
			tokenStart = i + 1
		}
	}
	flush(len(interior))
	return tags
}

// TagsLineInfo describes the tags-array line a cursor sits on, used by the
// context discriminator and tag completion to locate the bracket interior
// even while the array is still being typed (and thus not yet valid YAML).
type TagsLineInfo struct {
	LineContent          string
	TagsArrayStartColumn int
}

// FindTagsLineInfo reports the tags-array line info for cursor's line, if
// cursor sits on the frontmatter's tags line at or after the opening
// bracket. It does not require the array to be closed, since completion
// must work mid-edit (e.g. "tags: [pr").
func FindTagsLineInfo(text string, cursor span.Position) *TagsLineInfo {
	lines := strings.Split(text, "\n")
	if cursor.Line < 0 || cursor.Line >= len(lines) {
		return nil
	}
	start, end, ok := FrontmatterBounds(lines)
	if !ok || end == -1 {
		return nil
	}
	if cursor.Line <= start || cursor.Line >= end {
		return nil
	}

	line := lines[cursor.Line]
	loc := tagsLineRe.FindStringIndex(line)
	if loc == nil {
		return nil
	}
	bracketOffset := strings.IndexByte(line[loc[0]:], '[')
	if bracketOffset == -1 {
		return nil
	}
	arrayStart := loc[0] + bracketOffset + 1
	return &TagsLineInfo{LineContent: line, TagsArrayStartColumn: arrayStart}
}
