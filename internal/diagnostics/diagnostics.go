// Package diagnostics finds broken wikilinks in an open document and
// produces the diagnostic records the LSP layer publishes.
package diagnostics

import (
	"fmt"

	"github.com/wrenote/wikid/internal/fileindex"
	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/span"
)

// Severity mirrors the LSP DiagnosticSeverity enum's error tier; this
// server only ever emits errors, so no other tier is modeled.
const Severity = "error"

// Source is the stable identifier attached to every diagnostic this
// server publishes.
const Source = "wikid"

// Diagnostic is a single broken-wikilink finding.
type Diagnostic struct {
	Range    span.Range
	Message  string
	Severity string
	Source   string
}

// Check scans content for wikilinks whose target does not resolve in idx,
// returning one diagnostic per broken link. An empty, non-nil slice is
// never returned in place of nil; callers publish an empty array
// regardless to force client-side clearing.
func Check(idx *fileindex.Index, content string) []Diagnostic {
	links := markdown.ParseWikilinks(content)
	var out []Diagnostic
	for _, w := range links {
		if _, ok := idx.Resolve(w.Target); ok {
			continue
		}
		out = append(out, Diagnostic{
			Range:    w.Range,
			Message:  fmt.Sprintf("Broken wikilink: target file '%s' not found", w.Target),
			Severity: Severity,
			Source:   Source,
		})
	}
	return out
}
