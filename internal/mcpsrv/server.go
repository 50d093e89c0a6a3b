// Package mcpsrv exposes the analysis engine over the Model Context
// Protocol: add_file/remove_file/rebuild_project_files on the write
// side, diagnostics/lint/hover/goto_definition/completion/stats tools on
// the read side. Every tool takes a *ide.AnalysisHost snapshot, runs its
// query, and releases it before returning.
//
// Grounded on the teacher's internal/mcp server (`_keep/mcp_server.go.ref`)
// for the mcp.NewServer/AddTool/StdioTransport registration skeleton and
// its per-call panic recovery discipline; the teacher's own tool bodies
// (generic code search, symbol context, semantic annotations) are not
// ported; only the lifecycle and registration pattern is.
package mcpsrv

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/graphqlintel/graphqlintel/internal/ide"
)

// Server wraps one project's AnalysisHost with an MCP tool surface.
type Server struct {
	host   *ide.AnalysisHost
	server *mcp.Server
}

// NewServer builds a Server with its own empty, isolated AnalysisHost.
// Callers add files through the add_file tool (or, when embedding this
// server in a CLI command that pre-populates a project, through Host()
// or NewServerWithHost) before any read tool returns anything useful.
func NewServer() *Server {
	return NewServerWithHost(ide.NewAnalysisHost())
}

// NewServerWithHost builds a Server over an already-populated host, for
// the CLI's `mcp` command, which loads the project from disk before the
// stdio transport starts accepting requests.
func NewServerWithHost(host *ide.AnalysisHost) *Server {
	s := &Server{
		host: host,
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "graphqlintel",
		Version: "0.1.0",
	}, nil)
	s.registerTools()
	return s
}

// Host exposes the underlying AnalysisHost so a CLI command can
// pre-populate the project before handing the server to Start.
func (s *Server) Host() *ide.AnalysisHost {
	return s.host
}

// Start runs the server over stdio until ctx is canceled or the
// transport closes.
func (s *Server) Start(ctx context.Context) error {
	log.Printf("graphqlintel: starting MCP server")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// recovered wraps a tool handler with panic recovery, so one bad
// request (a nil pointer off a malformed query, a panic deep in a
// third-party parser) doesn't take down the whole stdio loop.
func recovered(name string, handler func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("graphqlintel: panic in tool %s: %v\n%s", name, r, debug.Stack())
				result = errorResult(fmt.Errorf("internal error in %s: %v", name, r))
				err = nil
			}
		}()
		return handler(ctx, req)
	}
}
