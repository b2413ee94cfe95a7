package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"pagebuilder/internal/mock"
	"pagebuilder/internal/service"
)

// Server is the MCP server for the page builder.
// It exposes tools, resources, and prompts so AI agents can compose pages.
type Server struct {
	mcp   *server.MCPServer
	pages *service.PageService
	synth *mock.Synthesizer
	log   *zap.Logger
}

// Deps holds all dependencies passed from the command layer to the MCP server.
type Deps struct {
	Pages   *service.PageService
	Synth   *mock.Synthesizer
	Log     *zap.Logger
	Version string
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	synth := deps.Synth
	if synth == nil {
		synth = mock.NewSynthesizer(mock.Options{})
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		pages: deps.Pages,
		synth: synth,
		log:   log.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPageTools()
	s.registerFormTools()
	s.registerDataTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// MCP returns the underlying server, for transports other than stdio.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
