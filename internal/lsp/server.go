// Package lsp runs the analysis engine as a minimal editor-facing
// language server over stdio: textDocument/didOpen, didChange, didClose
// drive the same AnalysisHost an editor's diagnostics, hover, goto
// definition, and completion requests read from (spec.md §4.8's surface,
// exposed over the wire shape spec.md §6 names).
//
// No JSON-RPC library from the retrieval pack has a usage example to
// ground a wiring on (github.com/sourcegraph/jsonrpc2 appears only as a
// bare go.mod dependency in an unrelated example, with no call site to
// learn its API from), so the Content-Length framing here is hand-rolled
// against the LSP base protocol's well-known wire format rather than
// guessed from an unseen library surface.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/diag"
	"github.com/graphqlintel/graphqlintel/internal/ide"
	"github.com/graphqlintel/graphqlintel/internal/types"
	"github.com/graphqlintel/graphqlintel/internal/watch"
)

// Server runs the stdio read loop over one project's AnalysisHost.
type Server struct {
	host *ide.AnalysisHost

	writeMu sync.Mutex
	out     *bufio.Writer
}

func NewServer(host *ide.AnalysisHost) *Server {
	return &Server{host: host}
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type notification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Run reads Content-Length-framed JSON-RPC messages from r and writes
// responses/notifications to w until r is exhausted, ctx is canceled, or
// an "exit" notification is received.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = bufio.NewWriter(w)
	reader := bufio.NewReader(r)

	type msg struct {
		body []byte
		err  error
	}
	msgs := make(chan msg)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			body, err := readMessage(reader)
			select {
			case msgs <- msg{body: body, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			if m.err != nil {
				if m.err == io.EOF {
					return nil
				}
				return m.err
			}
			var req request
			if err := json.Unmarshal(m.body, &req); err != nil {
				log.Printf("graphqlintel: lsp: malformed message: %v", err)
				continue
			}
			if req.Method == "exit" {
				return nil
			}
			s.dispatch(req)
		}
	}
}

// readMessage parses one "Content-Length: N\r\n\r\n<N bytes>" frame.
func readMessage(r *bufio.Reader) ([]byte, error) {
	var length int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			v := strings.TrimSpace(line[len("content-length:"):])
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("lsp: bad Content-Length %q: %w", v, err)
			}
			length = n
		}
	}
	if length == 0 {
		return nil, fmt.Errorf("lsp: missing Content-Length header")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Server) send(v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("graphqlintel: lsp: marshal failed: %v", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n", len(body))
	s.out.Write(body)
	s.out.Flush()
}

func (s *Server) reply(id json.RawMessage, result interface{}) {
	s.send(response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) replyError(id json.RawMessage, code int, msg string) {
	s.send(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}})
}

func (s *Server) notify(method string, params interface{}) {
	s.send(notification{JSONRPC: "2.0", Method: method, Params: params})
}

func (s *Server) dispatch(req request) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("graphqlintel: lsp: panic handling %s: %v", req.Method, r)
			if req.ID != nil {
				s.replyError(req.ID, -32603, fmt.Sprintf("internal error: %v", r))
			}
		}
	}()

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized":
		// no-op
	case "shutdown":
		s.reply(req.ID, nil)
	case "textDocument/didOpen":
		s.handleDidOpen(req)
	case "textDocument/didChange":
		s.handleDidChange(req)
	case "textDocument/didClose":
		s.handleDidClose(req)
	case "textDocument/hover":
		s.handleHover(req)
	case "textDocument/definition":
		s.handleDefinition(req)
	case "textDocument/completion":
		s.handleCompletion(req)
	default:
		if req.ID != nil {
			s.replyError(req.ID, -32601, fmt.Sprintf("method not found: %s", req.Method))
		}
	}
}

func (s *Server) handleInitialize(req request) {
	s.reply(req.ID, map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync":   1, // Full
			"hoverProvider":      true,
			"definitionProvider": true,
			"completionProvider": map[string]interface{}{},
		},
	})
}

type textDocumentItem struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

func (s *Server) handleDidOpen(req request) {
	var p struct {
		TextDocument textDocumentItem `json:"textDocument"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return
	}
	s.updateFile(p.TextDocument.URI, p.TextDocument.Text)
}

func (s *Server) handleDidChange(req request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		ContentChanges []struct {
			Text string `json:"text"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil || len(p.ContentChanges) == 0 {
		return
	}
	// Full-document sync only: the last change in the batch carries the
	// whole new text.
	s.updateFile(p.TextDocument.URI, p.ContentChanges[len(p.ContentChanges)-1].Text)
}

func (s *Server) updateFile(rawURI, content string) {
	path := strings.TrimPrefix(rawURI, "file://")
	kind, ok := watch.ClassifyPath(path, []byte(content))
	if !ok {
		return
	}
	s.host.AddFile(types.FileURI(rawURI), content, kind, db.ExtractionOffset{})
	s.host.RebuildProjectFiles()
	s.publishDiagnostics(types.FileURI(rawURI))
}

func (s *Server) handleDidClose(req request) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return
	}
	s.host.RemoveFile(types.FileURI(p.TextDocument.URI))
	s.host.RebuildProjectFiles()
	s.notify("textDocument/publishDiagnostics", map[string]interface{}{
		"uri":         p.TextDocument.URI,
		"diagnostics": []diag.Wire{},
	})
}

func (s *Server) publishDiagnostics(uri types.FileURI) {
	snap := s.host.Snapshot()
	defer snap.Release()
	wire := snap.DiagnosticsWire(uri)
	if wire == nil {
		wire = []diag.Wire{}
	}
	s.notify("textDocument/publishDiagnostics", map[string]interface{}{
		"uri":         string(uri),
		"diagnostics": toLSPDiagnostics(wire),
	})
}

// lspDiagnostic mirrors diag.Wire with severity as LSP's integer enum
// instead of a string, the one field the wire shape and the protocol
// disagree on.
type lspDiagnostic struct {
	Range    diag.WireRange `json:"range"`
	Severity int            `json:"severity"`
	Code     string         `json:"code,omitempty"`
	Source   string         `json:"source"`
	Message  string         `json:"message"`
}

func toLSPDiagnostics(wire []diag.Wire) []lspDiagnostic {
	out := make([]lspDiagnostic, len(wire))
	for i, w := range wire {
		out[i] = lspDiagnostic{
			Range:    w.Range,
			Severity: severityToLSP(w.Severity),
			Code:     w.Code,
			Source:   w.Source,
			Message:  w.Message,
		}
	}
	return out
}

func severityToLSP(sev string) int {
	switch sev {
	case "error":
		return 1
	case "warning":
		return 2
	case "info":
		return 3
	case "hint":
		return 4
	default:
		return 1
	}
}

type positionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position types.Position `json:"position"`
}

func (s *Server) handleHover(req request) {
	var p positionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyError(req.ID, -32602, "invalid params")
		return
	}
	snap := s.host.Snapshot()
	defer snap.Release()

	hover := snap.Hover(types.FileURI(p.TextDocument.URI), p.Position)
	if hover == nil {
		s.reply(req.ID, nil)
		return
	}
	s.reply(req.ID, map[string]interface{}{
		"contents": map[string]interface{}{
			"kind":  "markdown",
			"value": hover.Contents,
		},
		"range": hover.Range,
	})
}

func (s *Server) handleDefinition(req request) {
	var p positionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyError(req.ID, -32602, "invalid params")
		return
	}
	snap := s.host.Snapshot()
	defer snap.Release()

	locs := snap.GotoDefinition(types.FileURI(p.TextDocument.URI), p.Position)
	out := make([]map[string]interface{}, len(locs))
	for i, l := range locs {
		out[i] = map[string]interface{}{"uri": string(l.URI), "range": l.Range}
	}
	s.reply(req.ID, out)
}

func (s *Server) handleCompletion(req request) {
	var p positionParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		s.replyError(req.ID, -32602, "invalid params")
		return
	}
	snap := s.host.Snapshot()
	defer snap.Release()

	items := snap.Completion(types.FileURI(p.TextDocument.URI), p.Position)
	out := make([]map[string]interface{}, len(items))
	for i, it := range items {
		out[i] = map[string]interface{}{
			"label":      it.Label,
			"detail":     it.Detail,
			"insertText": it.InsertText,
		}
	}
	s.reply(req.ID, out)
}
