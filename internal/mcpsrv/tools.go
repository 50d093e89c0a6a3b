package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/ide"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "add_file",
		Description: "Register or update a GraphQL schema/document file, or a TS/JS file with embedded GraphQL, in the project.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uri":     {Type: "string", Description: "File URI, e.g. file:///path/to/schema.graphql"},
				"content": {Type: "string", Description: "Full file content"},
				"kind":    {Type: "string", Description: "One of: schema, executable, hosted-typescript, hosted-javascript"},
			},
			Required: []string{"uri", "content", "kind"},
		},
	}, recovered("add_file", s.wireAddFile))

	s.server.AddTool(&mcp.Tool{
		Name:        "remove_file",
		Description: "Remove a previously added file from the project.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"uri": {Type: "string"}},
			Required:   []string{"uri"},
		},
	}, recovered("remove_file", s.wireRemoveFile))

	s.server.AddTool(&mcp.Tool{
		Name:        "rebuild_project_files",
		Description: "Recompute project membership after a batch of add_file/remove_file calls. Call once after each batch, not after every individual file.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, recovered("rebuild_project_files", s.wireRebuildProjectFiles))

	s.server.AddTool(&mcp.Tool{
		Name:        "diagnostics",
		Description: "Validation errors, lint warnings, and hints for one file.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"uri": {Type: "string"}},
			Required:   []string{"uri"},
		},
	}, recovered("diagnostics", s.wireDiagnostics))

	s.server.AddTool(&mcp.Tool{
		Name:        "lint",
		Description: "Diagnostics for every file currently in the project, keyed by file URI.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, recovered("lint", s.wireLint))

	s.server.AddTool(&mcp.Tool{
		Name:        "hover",
		Description: "Markdown-formatted type/field information at a cursor position.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uri":       {Type: "string"},
				"line":      {Type: "integer"},
				"character": {Type: "integer"},
			},
			Required: []string{"uri", "line", "character"},
		},
	}, recovered("hover", s.wireHover))

	s.server.AddTool(&mcp.Tool{
		Name:        "goto_definition",
		Description: "Where the symbol under the cursor is declared.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uri":       {Type: "string"},
				"line":      {Type: "integer"},
				"character": {Type: "integer"},
			},
			Required: []string{"uri", "line", "character"},
		},
	}, recovered("goto_definition", s.wireGotoDefinition))

	s.server.AddTool(&mcp.Tool{
		Name:        "completion",
		Description: "Field and fragment-spread suggestions at a cursor position, optionally reordered against a partially-typed name.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uri":       {Type: "string"},
				"line":      {Type: "integer"},
				"character": {Type: "integer"},
				"query":     {Type: "string", Description: "Partial identifier already typed at the cursor, for ranking"},
			},
			Required: []string{"uri", "line", "character"},
		},
	}, recovered("completion", s.wireCompletion))

	s.server.AddTool(&mcp.Tool{
		Name:        "stats",
		Description: "Project-wide type/field/operation/fragment counts and average selection depth.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, recovered("stats", s.wireStats))
}

func parseFileKind(kind string) (types.FileKind, bool) {
	switch kind {
	case "schema":
		return types.FileKindSchema, true
	case "executable":
		return types.FileKindExecutable, true
	case "hosted-typescript":
		return types.FileKindHostedTypeScript, true
	case "hosted-javascript":
		return types.FileKindHostedJavaScript, true
	default:
		return 0, false
	}
}

// Each tool below is split into a wireXxx method, which only decodes the
// MCP request and encodes the result, and a core method doing the actual
// work against s.host — so the core logic is testable without building
// an *mcp.CallToolRequest by hand.

type addFileParams struct {
	URI     string `json:"uri"`
	Content string `json:"content"`
	Kind    string `json:"kind"`
}

func (s *Server) addFile(p addFileParams) (interface{}, error) {
	kind, ok := parseFileKind(p.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q: want schema, executable, hosted-typescript, or hosted-javascript", p.Kind)
	}
	fid := s.host.AddFile(types.FileURI(p.URI), p.Content, kind, db.ExtractionOffset{})
	return map[string]interface{}{"file_id": fmt.Sprint(fid)}, nil
}

func (s *Server) wireAddFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p addFileParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}
	result, err := s.addFile(p)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result)
}

type uriParams struct {
	URI string `json:"uri"`
}

func (s *Server) removeFile(p uriParams) interface{} {
	s.host.RemoveFile(types.FileURI(p.URI))
	return map[string]interface{}{"removed": p.URI}
}

func (s *Server) wireRemoveFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p uriParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}
	return textResult(s.removeFile(p))
}

func (s *Server) wireRebuildProjectFiles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.host.RebuildProjectFiles()
	return textResult(map[string]interface{}{"ok": true})
}

func (s *Server) diagnostics(p uriParams) []interface{} {
	snap := s.host.Snapshot()
	defer snap.Release()
	wire := snap.DiagnosticsWire(types.FileURI(p.URI))
	out := make([]interface{}, len(wire))
	for i, w := range wire {
		out[i] = w
	}
	return out
}

func (s *Server) wireDiagnostics(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p uriParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}
	return textResult(s.diagnostics(p))
}

func (s *Server) lint() map[string][]interface{} {
	snap := s.host.Snapshot()
	defer snap.Release()

	out := make(map[string][]interface{})
	for _, uri := range s.host.URIs() {
		wire := snap.DiagnosticsWire(uri)
		items := make([]interface{}, len(wire))
		for i, w := range wire {
			items[i] = w
		}
		out[string(uri)] = items
	}
	return out
}

func (s *Server) wireLint(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.lint())
}

type positionParams struct {
	URI       string `json:"uri"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

func (p positionParams) pos() types.Position {
	return types.Position{Line: p.Line, Character: p.Character}
}

func (s *Server) hover(p positionParams) map[string]interface{} {
	snap := s.host.Snapshot()
	defer snap.Release()

	hover := snap.Hover(types.FileURI(p.URI), p.pos())
	if hover == nil {
		return map[string]interface{}{"found": false}
	}
	return map[string]interface{}{
		"found":    true,
		"contents": hover.Contents,
		"range":    hover.Range,
	}
}

func (s *Server) wireHover(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p positionParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}
	return textResult(s.hover(p))
}

func (s *Server) gotoDefinition(p positionParams) []ide.Location {
	snap := s.host.Snapshot()
	defer snap.Release()
	return snap.GotoDefinition(types.FileURI(p.URI), p.pos())
}

func (s *Server) wireGotoDefinition(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p positionParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}
	return textResult(s.gotoDefinition(p))
}

type completionParams struct {
	URI       string `json:"uri"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Query     string `json:"query"`
}

func (s *Server) completion(p completionParams) []ide.CompletionItem {
	snap := s.host.Snapshot()
	defer snap.Release()

	items := snap.Completion(types.FileURI(p.URI), types.Position{Line: p.Line, Character: p.Character})
	return ide.RankCompletionItems(p.Query, items)
}

func (s *Server) wireCompletion(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p completionParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}
	return textResult(s.completion(p))
}

func (s *Server) stats() map[string]interface{} {
	snap := s.host.Snapshot()
	defer snap.Release()
	return snap.Stats().FormatAsJSON()
}

func (s *Server) wireStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.stats())
}
