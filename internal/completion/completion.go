// Package completion builds ranked completion candidates for wikilink
// targets and frontmatter tags, using the shared fuzzy matcher and the
// context discriminator's classification.
package completion

import (
	"fmt"
	"strings"

	"github.com/wrenote/wikid/internal/discriminator"
	"github.com/wrenote/wikid/internal/fileindex"
	"github.com/wrenote/wikid/internal/fuzzy"
	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/span"
	"github.com/wrenote/wikid/internal/tagindex"
)

// maxItems is the maximum number of items either completion mode returns.
const maxItems = 20

// Item is a single completion candidate, protocol-agnostic; the LSP layer
// translates it to a wire completionItem.
type Item struct {
	Label      string
	Detail     string
	InsertText string

	// IsFile distinguishes wikilink-target items (files) from tag items,
	// for the LSP layer's kind mapping.
	IsFile bool

	// ReplaceRange is the span the client should replace with InsertText.
	ReplaceRange span.Range
}

// Result is the full response for a completion request.
type Result struct {
	Items        []Item
	IsIncomplete bool
}

// Wikilinks builds the ranked file-target candidates for a completion
// request at pos inside text, excluding the file at currentPath from the
// candidate set.
func Wikilinks(idx *fileindex.Index, ctx discriminator.Result, pos span.Position, currentPath string) Result {
	seen := make(map[string]bool)
	candidates := make([]string, 0)
	for _, rec := range idx.All() {
		if rec.Path == currentPath {
			continue
		}
		if seen[rec.FoldedBasename] {
			continue
		}
		seen[rec.FoldedBasename] = true
		candidates = append(candidates, rec.Basename)
	}

	matches := fuzzy.Rank(ctx.Query, candidates, maxItems)

	// The client is asked to replace "[[<query>" through the cursor with
	// "<basename>]]", so the replaced span starts at the opening "[[".
	replaceStart := span.Position{Line: pos.Line, Character: pos.Character - len([]rune(ctx.Query)) - 2}
	replaceRange := span.Range{Start: replaceStart, End: pos}

	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		items = append(items, Item{
			Label:        m.Candidate,
			IsFile:       true,
			InsertText:   m.Candidate + "]]",
			ReplaceRange: replaceRange,
		})
	}
	return Result{Items: items, IsIncomplete: false}
}

// TagPrefix extracts the in-progress tag prefix at character within the
// tags-array line described by info: the text between the last "," or
// "[" and the cursor, trimmed.
func TagPrefix(info *markdown.TagsLineInfo, character int) string {
	line := info.LineContent
	end := character
	if end > len(line) {
		end = len(line)
	}
	if end < info.TagsArrayStartColumn {
		end = info.TagsArrayStartColumn
	}
	segment := line[info.TagsArrayStartColumn:end]
	if idx := strings.LastIndexByte(segment, ','); idx != -1 {
		segment = segment[idx+1:]
	}
	return strings.TrimSpace(segment)
}

// Tags builds the ranked tag-name candidates for a completion request
// whose prefix is the text between the last "," or "[" and the cursor.
func Tags(idx *tagindex.Index, prefix string) Result {
	candidates := idx.All()
	matches := fuzzy.Rank(prefix, candidates, maxItems)

	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		count := idx.Count(m.Candidate)
		items = append(items, Item{
			Label:      m.Candidate,
			Detail:     fmt.Sprintf("Used in %d files", count),
			InsertText: m.Candidate,
		})
	}
	return Result{Items: items, IsIncomplete: false}
}
