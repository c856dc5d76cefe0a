// Package rename builds the atomic edit descriptor for tag renames and
// wikilink renames (the latter optionally moving the target file).
//
// The descriptor is protocol-agnostic: internal/lsp translates it to the
// wire WorkspaceEdit shape. Keeping the planning logic free of
// encoding/json makes it testable without a transport round-trip.
package rename

import (
	"fmt"
	"path/filepath"
	"strings"

	pathpkg "path"

	"github.com/wrenote/wikid/internal/fileindex"
	"github.com/wrenote/wikid/internal/linkgraph"
	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/slugs"
	"github.com/wrenote/wikid/internal/span"
	"github.com/wrenote/wikid/internal/tagindex"
)

// TextEdit is a single replacement within one file.
type TextEdit struct {
	Path    string
	Range   span.Range
	NewText string
}

// FileRename is the at-most-one resource operation a plan may carry.
type FileRename struct {
	OldPath string
	NewPath string
}

// Plan is the atomic edit descriptor: all text edits plus an optional
// file-rename operation, applied by the editor as a single undo unit.
type Plan struct {
	Edits      []TextEdit
	FileRename *FileRename
}

// Tag builds a plan renaming every occurrence of oldTag to newTag across
// every file the Tag Index says carries it. Content is a lookup of a
// file's current text, supplied by the caller so this package never
// touches disk directly (open buffers must be read from the document
// store first, closed files from disk).
func Tag(tagIdx *tagindex.Index, oldTag, newTag string, content func(path string) (string, bool)) Plan {
	var plan Plan
	for _, path := range tagIdx.FilesFor(oldTag) {
		text, ok := content(path)
		if !ok {
			continue
		}
		for _, tag := range markdown.ParseTags(text) {
			if tag.Name != oldTag {
				continue
			}
			plan.Edits = append(plan.Edits, TextEdit{
				Path:    path,
				Range:   tag.Range,
				NewText: newTag,
			})
		}
	}
	return plan
}

// Wikilink builds a plan renaming every wikilink reference to oldTarget
// so it points at newTarget, moving the resolved file alongside it when
// oldTarget currently resolves to one.
//
// content supplies the current text of any indexed path (open buffers
// take precedence over disk in the caller's implementation); allPaths
// enumerates every file the Link Graph/File Index knows about, since the
// wikilink scan must run over the whole workspace, not just documents
// with open buffers.
func Wikilink(idx *fileindex.Index, graph *linkgraph.Graph, oldTarget, newTarget string, allPaths []string, content func(path string) (string, bool)) (Plan, error) {
	if strings.TrimSpace(newTarget) == "" {
		return Plan{}, fmt.Errorf("rename: new target must not be empty")
	}

	var plan Plan

	oldPath, resolved := idx.Resolve(oldTarget)
	if resolved {
		newPath := destinationPath(oldPath, newTarget)
		plan.FileRename = &FileRename{OldPath: oldPath, NewPath: newPath}
	}

	for _, path := range allPaths {
		text, ok := content(path)
		if !ok {
			continue
		}
		for _, w := range markdown.ParseWikilinks(text) {
			if w.Target != oldTarget {
				continue
			}
			plan.Edits = append(plan.Edits, TextEdit{
				Path:    path,
				Range:   w.TargetRange,
				NewText: computeNewTargetText(w.Target, newTarget),
			})
		}
	}

	if resolved {
		// The editor has not applied the file move yet, so newPath does
		// not exist on disk: re-key the record in place rather than
		// Rename, which would stat newPath and silently drop it.
		idx.RenameRecord(oldPath, plan.FileRename.NewPath)
		graph.ClearFile(oldPath)
	}

	return plan, nil
}

// destinationPath keeps oldPath's directory and derives the new filename
// from newTarget: if newTarget already carries an extension it is used
// verbatim (slugified), else oldPath's extension is appended.
func destinationPath(oldPath, newTarget string) string {
	dir := filepath.Dir(oldPath)
	oldExt := filepath.Ext(oldPath)

	base := newTarget
	ext := filepath.Ext(newTarget)
	if ext == "" {
		ext = oldExt
		base = newTarget
	} else {
		base = strings.TrimSuffix(newTarget, ext)
	}

	slug := slugs.ComponentSlug(base)
	return filepath.Join(dir, slug+ext)
}

// computeNewTargetText applies the has-extension-preservation rule from
// the target-span replacement contract:
//   - old had "."  + new has "."  -> new verbatim
//   - old had "."  + new is bare  -> new + old's extension
//   - old was bare + new has "."  -> stem of new (extension dropped)
//   - old was bare + new is bare  -> new verbatim
func computeNewTargetText(oldTarget, newTarget string) string {
	oldHasExt := strings.Contains(oldTarget, ".")
	newExt := pathpkg.Ext(newTarget)
	newHasExt := newExt != ""

	switch {
	case oldHasExt && newHasExt:
		return newTarget
	case oldHasExt && !newHasExt:
		return newTarget + pathpkg.Ext(oldTarget)
	case !oldHasExt && newHasExt:
		return strings.TrimSuffix(newTarget, newExt)
	default:
		return newTarget
	}
}
