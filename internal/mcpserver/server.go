// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Bifrost operations for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halvard/bifrost/internal/models"
	"github.com/halvard/bifrost/internal/reconcile"
	"github.com/halvard/bifrost/internal/vaultops"
)

// Server wraps the MCP server with Bifrost tools.
type Server struct {
	mcp *server.MCPServer
	svc *vaultops.Service
}

// New creates a new MCP server with all Bifrost tools registered.
func New(svc *vaultops.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Bifrost",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_vault",
		mcp.WithDescription("Run the vault compatibility battery and return the issues found. "+
			"An empty list means the vault is clean."),
	), s.scanVault)

	s.mcp.AddTool(mcp.NewTool("apply_fixes",
		mcp.WithDescription("Apply a selected subset of issues from a previous scan_vault call. "+
			"Pass the issues back verbatim as a JSON array; each item's failure is isolated."),
		mcp.WithString("issues", mcp.Required(), mcp.Description("JSON array of issues to apply, as returned by scan_vault")),
		mcp.WithBoolean("dry_run", mcp.Description("Classify and count without writing")),
	), s.applyFixes)

	s.mcp.AddTool(mcp.NewTool("sync_bookmarks",
		mcp.WithDescription("Reconcile Logseq favorites with Obsidian bookmarks. Unambiguous "+
			"additions are written immediately; missing and ambiguous names are returned for "+
			"manual resolution."),
		mcp.WithString("direction", mcp.Description("logseq-to-obsidian, obsidian-to-logseq, or both (default: configured)")),
	), s.syncBookmarks)

	s.mcp.AddTool(mcp.NewTool("resolve_ambiguous",
		mcp.WithDescription("Commit one candidate path for a name that resolved ambiguously."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The ambiguous page name")),
		mcp.WithString("path", mcp.Required(), mcp.Description("The chosen candidate file path")),
	), s.resolveAmbiguous)

	s.mcp.AddTool(mcp.NewTool("create_missing",
		mcp.WithDescription("Create an empty page for a favorite that resolved to no file, then bookmark it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The missing page name")),
	), s.createMissing)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) scanVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues, err := s.svc.Scan()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(issues) == 0 {
		return mcp.NewToolResultText("no compatibility issues found"), nil
	}
	out, _ := json.MarshalIndent(issues, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) applyFixes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("issues")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var issues []models.Issue
	if err := json.Unmarshal([]byte(raw), &issues); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid issues payload: %v", err)), nil
	}
	dryRun := req.GetBool("dry_run", false)

	res := s.svc.ApplyFixes(issues, dryRun)
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) syncBookmarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	direction := s.svc.DefaultDirection()
	if d := req.GetString("direction", ""); d != "" {
		parsed, err := reconcile.ParseDirection(d)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		direction = parsed
	}
	report, err := s.svc.Sync(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveAmbiguous(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.ResolveAmbiguous(name, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("bookmarked %s for %q", path, name)), nil
}

func (s *Server) createMissing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, err := s.svc.CreateMissing(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created and bookmarked %s", f.Path)), nil
}
