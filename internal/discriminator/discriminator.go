// Package discriminator classifies a (document, cursor) pair as sitting
// inside a wikilink, inside a tag array, or in neither, so the completion
// engine knows which mode to run.
package discriminator

import (
	"strings"

	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/span"
)

// Context is the classification result.
type Context int

const (
	// None means the cursor is not in a recognized completion/rename
	// context.
	None Context = iota
	// Wikilink means the cursor sits between an open "[[" and its
	// closing "]]" (or has no closing bracket yet on this line).
	Wikilink
	// Tag means the cursor sits inside the bracketed tags array of the
	// frontmatter.
	Tag
)

// Result carries the classification plus the data each mode's caller
// needs to proceed without re-scanning the document.
type Result struct {
	Context Context

	// Query is the in-progress wikilink target text (Wikilink context
	// only): everything after the nearest unmatched "[[" up to the
	// cursor, truncated at the first "|".
	Query string

	// TagsInfo is populated for Tag context, giving the raw line and
	// the column where the bracketed list begins.
	TagsInfo *markdown.TagsLineInfo
}

// Classify determines the completion/rename context at pos within text.
func Classify(text string, pos span.Position) Result {
	if query, ok := classifyWikilink(text, pos); ok {
		return Result{Context: Wikilink, Query: query}
	}

	if info := markdown.FindTagsLineInfo(text, pos); info != nil {
		return Result{Context: Tag, TagsInfo: info}
	}

	return Result{Context: None}
}

// classifyWikilink scans backward from pos on its own line looking for the
// nearest unmatched "[[" before any "]]" closes it. Scanning is
// line-local because a wikilink can never span a line break.
func classifyWikilink(text string, pos span.Position) (string, bool) {
	lines := strings.Split(text, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return "", false
	}
	line := []rune(lines[pos.Line])

	limit := pos.Character
	if limit > len(line) {
		limit = len(line)
	}

	openAt := -1
	i := limit - 1
	for i >= 0 {
		if i > 0 && line[i-1] == '[' && line[i] == '[' {
			openAt = i - 1
			break
		}
		if i > 0 && line[i-1] == ']' && line[i] == ']' {
			// A closed pair before the cursor on this scan means
			// whatever opened it is not the enclosing wikilink.
			break
		}
		i--
	}

	if openAt == -1 {
		return "", false
	}

	// Confirm the cursor is not already past a closing "]]" that
	// belongs to this same "[[".
	rest := string(line[openAt+2 : limit])
	if strings.Contains(rest, "]]") {
		return "", false
	}

	query := rest
	if idx := strings.IndexByte(query, '|'); idx != -1 {
		query = query[:idx]
	}
	return query, true
}
