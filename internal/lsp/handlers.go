package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wrenote/wikid/internal/completion"
	"github.com/wrenote/wikid/internal/diagnostics"
	"github.com/wrenote/wikid/internal/discriminator"
	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/rename"
)

func (s *Server) handleInitialize(msg jsonRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	if s.root == "" {
		root := params.RootURI
		if root == "" && len(params.WorkspaceFolders) > 0 {
			root = params.WorkspaceFolders[0].URI
		}
		if root != "" {
			s.root = s.uriToPath(root)
			ctx := s.runCtx
			if ctx == nil {
				ctx = context.Background()
			}
			if err := s.openWorkspace(ctx); err != nil {
				s.logDebug("failed to open workspace from initialize: %v", err)
			}
		}
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: TextDocumentSyncOptions{
				OpenClose: true,
				Change:    1, // full sync
				Save:      &SaveOptions{IncludeText: true},
			},
			HoverProvider:          true,
			DefinitionProvider:     true,
			ReferencesProvider:     true,
			DocumentSymbolProvider: true,
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{"[", ","},
			},
			RenameProvider: &RenameOptions{PrepareProvider: true},
		},
	}
	return s.sendResult(msg.ID, result)
}

func (s *Server) handleDidOpen(msg jsonRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.docs.DidOpen(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.logDebug("opened: %s", params.TextDocument.URI)
	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidChange(msg jsonRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.docs.DidChange(params.TextDocument.URI, text, params.TextDocument.Version)
	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidSave(msg jsonRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.logDebug("saved: %s", params.TextDocument.URI)
	s.reindexFile(s.uriToPath(params.TextDocument.URI))
	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(msg jsonRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.docs.DidClose(params.TextDocument.URI)
	s.logDebug("closed: %s", params.TextDocument.URI)
	return nil
}

// publishDiagnostics republishes uri's broken-wikilink diagnostics,
// clearing with an empty array first so a client that caches the last
// published set never keeps a stale entry.
func (s *Server) publishDiagnostics(uri string) {
	content, ok := s.contentFor(uri)
	if !ok {
		return
	}

	s.sendNotification("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})

	s.idxMu.RLock()
	found := diagnostics.Check(s.files, content)
	s.idxMu.RUnlock()

	wire := make([]Diagnostic, 0, len(found))
	for _, d := range found {
		wire = append(wire, Diagnostic{
			Range:    toWireRange(d.Range),
			Severity: DiagnosticSeverityError,
			Source:   d.Source,
			Message:  d.Message,
		})
	}
	if err := s.sendNotification("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: wire,
	}); err != nil {
		s.logDebug("failed to publish diagnostics: %v", err)
	}
}

func (s *Server) handleCompletion(msg jsonRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	content, ok := s.contentFor(params.TextDocument.URI)
	if !ok {
		return s.sendResult(msg.ID, CompletionList{Items: []CompletionItem{}, IsIncomplete: false})
	}

	pos := toSpanPosition(params.Position)
	ctx := discriminator.Classify(content, pos)

	s.idxMu.RLock()
	defer s.idxMu.RUnlock()

	switch ctx.Context {
	case discriminator.Wikilink:
		result := completion.Wikilinks(s.files, ctx, pos, s.uriToPath(params.TextDocument.URI))
		return s.sendResult(msg.ID, toCompletionList(result))
	case discriminator.Tag:
		prefix := completion.TagPrefix(ctx.TagsInfo, params.Position.Character)
		result := completion.Tags(s.tags, prefix)
		return s.sendResult(msg.ID, toCompletionList(result))
	default:
		return s.sendResult(msg.ID, CompletionList{Items: []CompletionItem{}, IsIncomplete: false})
	}
}

func toCompletionList(result completion.Result) CompletionList {
	items := make([]CompletionItem, 0, len(result.Items))
	for _, it := range result.Items {
		wire := CompletionItem{Label: it.Label, Detail: it.Detail}
		if it.IsFile {
			wire.Kind = CompletionKindFile
			wire.TextEdit = &TextEditWire{Range: toWireRange(it.ReplaceRange), NewText: it.InsertText}
		} else {
			wire.Kind = CompletionKindKeyword
			wire.InsertText = it.InsertText
		}
		items = append(items, wire)
	}
	return CompletionList{Items: items, IsIncomplete: result.IsIncomplete}
}

func (s *Server) handleDefinition(msg jsonRPCMessage) error {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	pos := toSpanPosition(params.Position)
	w, ok := s.docs.WikilinkAt(params.TextDocument.URI, pos)
	if !ok {
		return s.sendResult(msg.ID, nil)
	}

	s.idxMu.RLock()
	path, resolved := s.files.Resolve(w.Target)
	s.idxMu.RUnlock()
	if !resolved {
		return s.sendResult(msg.ID, nil)
	}

	return s.sendResult(msg.ID, Location{
		URI:   s.pathToURI(path),
		Range: Range{},
	})
}

func (s *Server) handleHover(msg jsonRPCMessage) error {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	pos := toSpanPosition(params.Position)
	w, ok := s.docs.WikilinkAt(params.TextDocument.URI, pos)
	if !ok {
		return s.sendResult(msg.ID, nil)
	}

	s.idxMu.RLock()
	path, resolved := s.files.Resolve(w.Target)
	rec, _ := s.files.Get(path)
	s.idxMu.RUnlock()
	if !resolved {
		return s.sendResult(msg.ID, nil)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s.sendResult(msg.ID, nil)
	}

	const previewBytes = 1024
	preview := raw
	truncated := len(raw) > previewBytes
	if truncated {
		preview = raw[:previewBytes]
	}

	var b strings.Builder
	title := path
	if rec != nil {
		title = rec.Title
	}
	fmt.Fprintf(&b, "**%s**\n\n", title)
	if truncated {
		fmt.Fprintf(&b, "_(showing first %d of %d bytes)_\n\n", previewBytes, len(raw))
	}

	if fm := markdown.ParseFrontmatter(string(raw)); fm != nil && len(fm.Tags) > 0 {
		names := make([]string, len(fm.Tags))
		for i, t := range fm.Tags {
			names[i] = t.Name
		}
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(names, ", "))
	}

	b.WriteString("---\n\n")
	b.Write(preview)

	return s.sendResult(msg.ID, Hover{Contents: MarkupContent{Kind: "markdown", Value: b.String()}})
}

func (s *Server) handleReferences(msg jsonRPCMessage) error {
	var params ReferenceParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	content, ok := s.contentFor(params.TextDocument.URI)
	if !ok {
		return s.sendResult(msg.ID, []Location{})
	}
	pos := toSpanPosition(params.Position)

	if w, ok := s.docs.WikilinkAt(params.TextDocument.URI, pos); ok {
		s.idxMu.RLock()
		path, resolved := s.files.Resolve(w.Target)
		var files []string
		if resolved {
			files = s.graph.FilesReferencingFile(path)
		}
		s.idxMu.RUnlock()
		if !resolved {
			return s.sendResult(msg.ID, []Location{})
		}
		return s.sendResult(msg.ID, s.locationsForWikilinksTo(files, w.Target))
	}

	for _, t := range markdown.ParseTags(content) {
		if !t.Range.Contains(pos) {
			continue
		}
		s.idxMu.RLock()
		files := s.tags.FilesFor(t.Name)
		s.idxMu.RUnlock()
		return s.sendResult(msg.ID, s.locationsForTag(files, t.Name))
	}

	return s.sendResult(msg.ID, []Location{})
}

func (s *Server) locationsForWikilinksTo(files []string, target string) []Location {
	var out []Location
	for _, f := range files {
		text, ok := s.contentForPath(f)
		if !ok {
			continue
		}
		for _, w := range markdown.ParseWikilinks(text) {
			if w.Target == target {
				out = append(out, Location{URI: s.pathToURI(f), Range: toWireRange(w.Range)})
			}
		}
	}
	if out == nil {
		out = []Location{}
	}
	return out
}

func (s *Server) locationsForTag(files []string, tagName string) []Location {
	var out []Location
	for _, f := range files {
		text, ok := s.contentForPath(f)
		if !ok {
			continue
		}
		for _, t := range markdown.ParseTags(text) {
			if t.Name == tagName {
				out = append(out, Location{URI: s.pathToURI(f), Range: toWireRange(t.Range)})
			}
		}
	}
	if out == nil {
		out = []Location{}
	}
	return out
}

func (s *Server) handleDocumentSymbol(msg jsonRPCMessage) error {
	var params DocumentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	content, ok := s.contentFor(params.TextDocument.URI)
	if !ok {
		return s.sendResult(msg.ID, []SymbolInformation{})
	}

	var symbols []SymbolInformation
	for _, w := range markdown.ParseWikilinks(content) {
		symbols = append(symbols, SymbolInformation{
			Name: w.Target,
			Kind: SymbolKindFile,
			Location: Location{
				URI:   params.TextDocument.URI,
				Range: toWireRange(w.Range),
			},
		})
	}
	for _, t := range markdown.ParseTags(content) {
		symbols = append(symbols, SymbolInformation{
			Name: t.Name,
			Kind: SymbolKindString,
			Location: Location{
				URI:   params.TextDocument.URI,
				Range: toWireRange(t.Range),
			},
		})
	}
	if symbols == nil {
		symbols = []SymbolInformation{}
	}
	return s.sendResult(msg.ID, symbols)
}

func (s *Server) handlePrepareRename(msg jsonRPCMessage) error {
	var params PrepareRenameParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	pos := toSpanPosition(params.Position)

	if w, ok := s.docs.WikilinkAt(params.TextDocument.URI, pos); ok {
		return s.sendResult(msg.ID, PrepareRenameResult{
			Range:       toWireRange(w.TargetRange),
			Placeholder: w.Target,
		})
	}

	content, ok := s.contentFor(params.TextDocument.URI)
	if ok {
		for _, t := range markdown.ParseTags(content) {
			if t.Range.Contains(pos) {
				return s.sendResult(msg.ID, PrepareRenameResult{
					Range:       toWireRange(t.Range),
					Placeholder: t.Name,
				})
			}
		}
	}

	return s.sendError(msg.ID, errRequestFailed, "position is not renameable")
}

func (s *Server) handleRename(msg jsonRPCMessage) error {
	var params RenameParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}

	content, ok := s.contentFor(params.TextDocument.URI)
	if !ok {
		return s.sendError(msg.ID, errRequestFailed, "position is not renameable")
	}
	pos := toSpanPosition(params.Position)

	if w, ok := s.docs.WikilinkAt(params.TextDocument.URI, pos); ok {
		s.idxMu.Lock()
		allPaths := make([]string, 0)
		for _, rec := range s.files.All() {
			allPaths = append(allPaths, rec.Path)
		}
		plan, err := rename.Wikilink(s.files, s.graph, w.Target, params.NewName, allPaths, s.contentForPath)
		s.idxMu.Unlock()
		if err != nil {
			return s.sendError(msg.ID, errInvalidParams, err.Error())
		}
		return s.sendResult(msg.ID, s.planToWorkspaceEdit(plan))
	}

	for _, t := range markdown.ParseTags(content) {
		if !t.Range.Contains(pos) {
			continue
		}
		s.idxMu.RLock()
		plan := rename.Tag(s.tags, t.Name, params.NewName, s.contentForPath)
		s.idxMu.RUnlock()
		return s.sendResult(msg.ID, s.planToWorkspaceEdit(plan))
	}

	return s.sendError(msg.ID, errRequestFailed, "position is not renameable")
}

// planToWorkspaceEdit translates a rename.Plan into the wire
// WorkspaceEdit. The file-rename operation is emitted first so the
// editor applies it before the text edits that assume the new path.
func (s *Server) planToWorkspaceEdit(plan rename.Plan) WorkspaceEdit {
	var ops []DocumentChangeOperation

	if plan.FileRename != nil {
		ops = append(ops, DocumentChangeOperation{
			RenameFile: &RenameFile{
				Kind:   "rename",
				OldURI: s.pathToURI(plan.FileRename.OldPath),
				NewURI: s.pathToURI(plan.FileRename.NewPath),
			},
		})
	}

	byPath := make(map[string][]TextEditWire)
	var order []string
	for _, e := range plan.Edits {
		if _, seen := byPath[e.Path]; !seen {
			order = append(order, e.Path)
		}
		byPath[e.Path] = append(byPath[e.Path], TextEditWire{
			Range:   toWireRange(e.Range),
			NewText: e.NewText,
		})
	}
	for _, p := range order {
		ops = append(ops, DocumentChangeOperation{
			TextDocumentEdit: &TextDocumentEdit{
				TextDocument: VersionedTextDocumentIdentifier{URI: s.pathToURI(p)},
				Edits:        byPath[p],
			},
		})
	}

	return WorkspaceEdit{DocumentChanges: ops}
}
