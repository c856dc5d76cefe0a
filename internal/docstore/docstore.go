// Package docstore holds a shadow copy of every open editor buffer: a
// mutex-guarded map keyed by URI, replaced wholesale on each change
// notification rather than patched incrementally.
package docstore

import (
	"sync"

	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/span"
)

// Document is a single open buffer's shadow state.
type Document struct {
	URI     string
	Content string

	// Version is the monotonic version number supplied by the client.
	Version int

	// Wikilinks is the parse of Content at the time it was last set.
	Wikilinks []markdown.Wikilink
}

// Store is the Document Store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// New creates an empty Document Store.
func New() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// DidOpen creates the shadow copy for uri.
func (s *Store) DidOpen(uri, text string, version int) {
	s.set(uri, text, version)
}

// DidChange replaces the shadow copy for uri in full. Range-based partial
// edits are not supported: the client is expected to send the complete
// document text on every change, per the server's advertised
// textDocumentSync capability.
func (s *Store) DidChange(uri, text string, version int) {
	s.set(uri, text, version)
}

func (s *Store) set(uri, text string, version int) {
	doc := &Document{
		URI:       uri,
		Content:   text,
		Version:   version,
		Wikilinks: markdown.ParseWikilinks(text),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = doc
}

// DidClose destroys the shadow copy for uri.
func (s *Store) DidClose(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns the shadow copy for uri, if open.
func (s *Store) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// URIs returns every currently open URI, used to revalidate diagnostics
// after a watcher-triggered rebuild.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		out = append(out, uri)
	}
	return out
}

// WikilinkAt returns the wikilink in uri's buffer whose range contains
// pos, if any. Lookup is a linear scan over that document's parsed
// wikilinks, which is proportionate to a single buffer's size.
func (s *Store) WikilinkAt(uri string, pos span.Position) (markdown.Wikilink, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[uri]
	if !ok {
		return markdown.Wikilink{}, false
	}
	for _, w := range doc.Wikilinks {
		if w.Range.Contains(pos) {
			return w, true
		}
	}
	return markdown.Wikilink{}, false
}
