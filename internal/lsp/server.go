// Package lsp implements the Language Server Protocol server for
// wikilink-flavored markdown vaults, wiring together the Markdown
// Scanner, the four indices, the Document Store, and the Watcher behind
// a Content-Length-framed JSON-RPC message loop.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wrenote/wikid/internal/config"
	"github.com/wrenote/wikid/internal/docstore"
	"github.com/wrenote/wikid/internal/fileindex"
	"github.com/wrenote/wikid/internal/linkgraph"
	"github.com/wrenote/wikid/internal/markdown"
	"github.com/wrenote/wikid/internal/span"
	"github.com/wrenote/wikid/internal/tagindex"
	"github.com/wrenote/wikid/internal/watcher"
	"github.com/wrenote/wikid/internal/workspace"
)

// Server is the wikid LSP server. It owns every index and the shadow
// document store for the lifetime of the process.
type Server struct {
	root  string
	cfg   *config.Config
	debug bool

	files *fileindex.Index
	tags  *tagindex.Index
	graph *linkgraph.Graph
	docs  *docstore.Store

	watcher *watcher.Watcher

	// runCtx is Run's context, stashed so a late-arriving initialize
	// request (workspace root supplied only there, not via CLI flag) can
	// still start the watcher bound to the same lifetime. The single-
	// threaded message loop guarantees this is set before any handler
	// that reads it runs.
	runCtx context.Context

	// idxMu serializes index rebuilds (run from the watcher's goroutine)
	// against index reads/writes performed by the message loop.
	idxMu sync.RWMutex

	input  io.Reader
	output io.Writer
	outMu  sync.Mutex

	shutdown bool
}

// NewServer creates a Server rooted at vaultPath, which may be empty if
// the workspace root is only known once an initialize request arrives.
func NewServer(vaultPath string, cfg *config.Config, debug bool) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Server{
		root:   vaultPath,
		cfg:    cfg,
		debug:  debug,
		files:  fileindex.New(),
		tags:   tagindex.New(),
		graph:  linkgraph.New(),
		docs:   docstore.New(),
		input:  os.Stdin,
		output: os.Stdout,
	}
}

// Run processes messages from input until shutdown, exit, EOF, or ctx
// cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.runCtx = ctx

	if s.root != "" {
		if err := s.openWorkspace(ctx); err != nil {
			return fmt.Errorf("failed to open workspace: %w", err)
		}
	}

	s.logDebug("wikid LSP server started (vault=%q)", s.root)

	for !s.shutdown {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := s.handleNextMessage(); err != nil {
				if err == io.EOF {
					return nil
				}
				s.logDebug("error handling message: %v", err)
			}
		}
	}

	return nil
}

// openWorkspace performs the initial full index build and starts the
// watcher. It is safe to call at most once per Server.
func (s *Server) openWorkspace(ctx context.Context) error {
	paths, err := workspace.Discover(s.root, s.cfg.Ignore)
	if err != nil {
		return err
	}
	s.rebuildIndex(paths)

	w, err := watcher.New(watcher.Config{
		Root:      s.root,
		Ignore:    s.cfg.Ignore,
		Debug:     s.debug,
		OnRebuild: s.onRebuild,
	})
	if err != nil {
		return err
	}
	s.watcher = w

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			s.logDebug("watcher stopped: %v", err)
		}
	}()

	return nil
}

// rebuildIndex recomputes the File Index, Tag Index, and Link Graph from
// scratch given the current file list.
func (s *Server) rebuildIndex(paths []string) {
	s.idxMu.Lock()
	defer s.idxMu.Unlock()

	s.files.Reset()
	for _, p := range paths {
		s.files.Add(p)
	}

	s.tags.Reset()
	s.graph.Reset()
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		s.indexFileContentLocked(p, string(content))
	}
}

// reindexFile incrementally refreshes a single file's entries in all
// three indices, used after didSave as a cheaper alternative to a full
// rebuild.
func (s *Server) reindexFile(path string) {
	s.idxMu.Lock()
	defer s.idxMu.Unlock()

	s.files.Add(path)
	s.graph.ClearFile(path)

	content, err := os.ReadFile(path)
	if err != nil {
		s.tags.RemoveFile(path)
		return
	}
	s.indexFileContentLocked(path, string(content))
}

// indexFileContentLocked updates the Tag Index and Link Graph entries for
// path from content. Callers must hold idxMu.
func (s *Server) indexFileContentLocked(path, content string) {
	tags := markdown.ParseTags(content)
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	s.tags.SetTags(path, names)
	for _, name := range names {
		s.graph.AddTagUsage(path, name)
	}

	for _, w := range markdown.ParseWikilinks(content) {
		if target, ok := s.files.Resolve(w.Target); ok {
			s.graph.AddLink(path, target)
		}
	}
}

// onRebuild is the Watcher's callback: rebuild the indices, then
// revalidate every open document's diagnostics.
func (s *Server) onRebuild(paths []string) {
	s.rebuildIndex(paths)
	for _, uri := range s.docs.URIs() {
		s.publishDiagnostics(uri)
	}
}

// contentFor returns the current text for uri: the shadow copy if the
// document is open, else the on-disk content.
func (s *Server) contentFor(uri string) (string, bool) {
	if doc, ok := s.docs.Get(uri); ok {
		return doc.Content, true
	}
	content, err := os.ReadFile(s.uriToPath(uri))
	if err != nil {
		return "", false
	}
	return string(content), true
}

// contentForPath is contentFor's path-keyed counterpart, used by the
// rename planner, which enumerates canonical paths rather than URIs.
func (s *Server) contentForPath(path string) (string, bool) {
	return s.contentFor(s.pathToURI(path))
}

// handleNextMessage reads one Content-Length-framed JSON-RPC message and
// dispatches it.
func (s *Server) handleNextMessage() error {
	var contentLength int
	for {
		line, err := readHeaderLine(s.input)
		if err != nil {
			return err
		}
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length:") {
			fmt.Sscanf(strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:")), "%d", &contentLength)
		}
	}
	if contentLength == 0 {
		return fmt.Errorf("lsp: malformed frame: missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.input, body); err != nil {
		return err
	}

	var msg jsonRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logDebug("malformed transport frame, skipping: %v", err)
		return nil
	}

	s.logDebug("received: %s", msg.Method)
	return s.dispatch(msg)
}

// readHeaderLine reads a single \r\n-terminated header line (without the
// terminator) from r.
func readHeaderLine(r io.Reader) (string, error) {
	var line strings.Builder
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			return "", err
		}
		if buf[0] == '\n' {
			break
		}
		if buf[0] != '\r' {
			line.WriteByte(buf[0])
		}
	}
	return line.String(), nil
}

// dispatch routes msg to its handler. A handler's returned error is
// logged and never crashes the loop.
func (s *Server) dispatch(msg jsonRPCMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		s.shutdown = true
		return s.sendResult(msg.ID, nil)
	case "exit":
		if s.shutdown {
			os.Exit(0)
		}
		os.Exit(1)
		return nil
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/references":
		return s.handleReferences(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/prepareRename":
		return s.handlePrepareRename(msg)
	case "textDocument/rename":
		return s.handleRename(msg)
	case "workspace/didChangeWatchedFiles":
		if s.watcher != nil {
			s.watcher.RebuildNow()
		}
		return nil
	default:
		s.logDebug("unhandled method: %s", msg.Method)
		if msg.ID != nil {
			return s.sendError(msg.ID, errMethodNotFound, "method not found: "+msg.Method)
		}
		return nil
	}
}

func (s *Server) sendResult(id interface{}, result interface{}) error {
	return s.send(jsonRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id interface{}, code int, message string) error {
	return s.send(jsonRPCResponse{JSONRPC: "2.0", ID: id, Error: &jsonRPCError{Code: code, Message: message}})
}

func (s *Server) sendNotification(method string, params interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return s.send(jsonRPCMessage{JSONRPC: "2.0", Method: method, Params: data})
}

func (s *Server) send(msg interface{}) error {
	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))
	if _, err := s.output.Write([]byte(header)); err != nil {
		return err
	}
	_, err = s.output.Write(content)
	return err
}

func (s *Server) logDebug(format string, args ...interface{}) {
	if !s.debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[wikid-lsp] "+format+"\n", args...)
}

// uriToPath strips the "file://" scheme and resolves a relative path
// against the workspace root (or the current directory, if the root is
// not yet known).
func (s *Server) uriToPath(uri string) string {
	p := strings.TrimPrefix(uri, "file://")
	if filepath.IsAbs(p) {
		return p
	}
	root := s.root
	if root == "" {
		root, _ = os.Getwd()
	}
	return filepath.Join(root, p)
}

func (s *Server) pathToURI(path string) string {
	if !filepath.IsAbs(path) {
		root := s.root
		if root == "" {
			root, _ = os.Getwd()
		}
		path = filepath.Join(root, path)
	}
	return "file://" + path
}

func toSpanPosition(p Position) span.Position {
	return span.Position{Line: p.Line, Character: p.Character}
}

func toWirePosition(p span.Position) Position {
	return Position{Line: p.Line, Character: p.Character}
}

func toWireRange(r span.Range) Range {
	return Range{Start: toWirePosition(r.Start), End: toWirePosition(r.End)}
}
