package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	pageURI            = "pagebuilder://page"
	catalogURI         = "pagebuilder://catalog"
	componentURIPrefix = "pagebuilder://component/"
)

func (s *Server) registerResources() {
	// ── pagebuilder://page ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		pageURI,
		"Current Page",
		mcp.WithMIMEType("application/json"),
	), s.handlePageResource)

	// ── pagebuilder://catalog ──────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		catalogURI,
		"Component Catalog",
		mcp.WithMIMEType("application/json"),
	), s.handleCatalogResource)

	// ── pagebuilder://component/{id} ───────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			componentURIPrefix+"{id}",
			"Component by ID",
		),
		s.handleComponentResource,
	)
}

func (s *Server) handlePageResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(pageURI, s.pages.Document())
}

func (s *Server) handleCatalogResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(catalogURI, catalogEntries())
}

func (s *Server) handleComponentResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := strings.TrimPrefix(uri, componentURIPrefix)
	if id == "" || id == uri {
		return nil, fmt.Errorf("could not extract component id from URI: %s", uri)
	}
	c := s.pages.Find(id)
	if c == nil {
		return nil, fmt.Errorf("component not found: %s", id)
	}
	return jsonContents(uri, c)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
