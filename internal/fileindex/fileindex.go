// Package fileindex maps note stems to canonical on-disk paths.
//
// It provides the single lookup this server's data model requires: a
// case-insensitive, extension-agnostic mapping from a wikilink target or
// completion query to the file that satisfies it.
package fileindex

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/wrenote/wikid/internal/markdown"
)

// Record describes a single indexed file.
type Record struct {
	// Path is the canonical absolute on-disk path.
	Path string

	// Basename is the display filename, extension included (e.g.
	// "note.md"), used as a completion label.
	Basename string

	// FoldedBasename is the filename stem — Basename with its extension
	// stripped, then lowercased — used as the lookup key.
	FoldedBasename string

	// ModTime is the file's last-known modification time.
	ModTime time.Time

	// Title is the file's first level-1 heading, if any; falls back to
	// the filename stem (Basename without its extension) when absent.
	// Used only by hover previews.
	Title string
}

// Index is the File Index: a bidirectional-enough map from canonical path
// to Record and from folded basename to Record.
//
// Basename collisions fold to the same key; the last writer to Add wins on
// that key, but every record remains reachable by its own canonical path
// in the by-path map.
type Index struct {
	mu       sync.RWMutex
	byPath   map[string]*Record
	byFolded map[string]*Record
}

// New creates an empty File Index.
func New() *Index {
	return &Index{
		byPath:   make(map[string]*Record),
		byFolded: make(map[string]*Record),
	}
}

// Add stats and registers path. Missing-file errors are swallowed: the
// file is simply omitted from the index rather than surfaced as an error,
// matching the scanner's "never throws" contract.
func (idx *Index) Add(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}

	base := filepath.Base(path)
	basename := strings.TrimSuffix(base, filepath.Ext(base))
	content, _ := os.ReadFile(path)
	title := basename
	if t, ok := markdown.FirstHeading(string(content)); ok {
		title = t
	}

	rec := &Record{
		Path:           path,
		Basename:       base,
		FoldedBasename: strings.ToLower(basename),
		ModTime:        info.ModTime(),
		Title:          title,
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byPath[path] = rec
	idx.byFolded[rec.FoldedBasename] = rec
}

// Remove purges path from both maps. If another file shares its folded
// basename it is not restored automatically — the last Add always wins,
// so a rediscovery pass (workspace.Discover + reindex) is what repairs
// this after a delete.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	rec, ok := idx.byPath[path]
	if !ok {
		return
	}
	delete(idx.byPath, path)
	if idx.byFolded[rec.FoldedBasename] == rec {
		delete(idx.byFolded, rec.FoldedBasename)
	}
}

// Rename removes oldPath and adds newPath. It is not atomic internally —
// Remove and Add each take the lock separately, so a reader that runs
// between the two calls sees neither path.
//
// Rename stats newPath, so it only works once the file has actually moved
// on disk. Rename planning happens before the editor applies the move —
// use RenameRecord there instead.
func (idx *Index) Rename(oldPath, newPath string) {
	idx.Remove(oldPath)
	idx.Add(newPath)
}

// RenameRecord re-keys the existing record at oldPath to newPath without
// touching disk, so the index reflects the new world immediately even
// though the editor has not yet applied the file move that would make
// os.Stat(newPath) succeed. Basename and FoldedBasename are recomputed
// from newPath; every other field is carried over unchanged. Reports
// false if oldPath was not indexed.
func (idx *Index) RenameRecord(oldPath, newPath string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	rec, ok := idx.byPath[oldPath]
	if !ok {
		return false
	}
	delete(idx.byPath, oldPath)
	if idx.byFolded[rec.FoldedBasename] == rec {
		delete(idx.byFolded, rec.FoldedBasename)
	}

	base := filepath.Base(newPath)
	basename := strings.TrimSuffix(base, filepath.Ext(base))

	updated := &Record{
		Path:           newPath,
		Basename:       base,
		FoldedBasename: strings.ToLower(basename),
		ModTime:        rec.ModTime,
		Title:          rec.Title,
	}

	idx.byPath[newPath] = updated
	idx.byFolded[updated.FoldedBasename] = updated
	return true
}

// Resolve looks up target (as it appears inside a wikilink) and returns the
// canonical path it names, if any. A trailing ".md" is stripped before
// lookup; matching is case-insensitive on the folded basename, so
// Resolve("Foo"), Resolve("foo"), Resolve("foo.md") and Resolve("FOO.MD")
// are all equivalent.
func (idx *Index) Resolve(target string) (string, bool) {
	key := strings.TrimSuffix(strings.ToLower(target), ".md")

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	rec, ok := idx.byFolded[key]
	if !ok {
		return "", false
	}
	return rec.Path, true
}

// Get returns the record for path, if indexed.
func (idx *Index) Get(path string) (*Record, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	rec, ok := idx.byPath[path]
	return rec, ok
}

// All returns every indexed record, in no particular order.
func (idx *Index) All() []*Record {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]*Record, 0, len(idx.byPath))
	for _, rec := range idx.byPath {
		out = append(out, rec)
	}
	return out
}

// Len reports the number of indexed files, used by the watcher's
// file-count-differs heuristic.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byPath)
}

// Reset clears the index entirely, used before a full rebuild.
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byPath = make(map[string]*Record)
	idx.byFolded = make(map[string]*Record)
}
