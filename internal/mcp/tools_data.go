package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/catalog"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/mock"
)

func (s *Server) registerDataTools() {
	// ── Catalog ────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List the component palette: every type with its name, group, default props and editable props."),
	), s.handleListCatalog)

	// ── Mock data ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("synthesize_data",
		mcp.WithDescription("Generate mock data the way the preview does for remote data sources."),
		mcp.WithString("kind", mcp.Description("Component kind: table, barChart, lineChart, form, or anything else for a generic payload"), mcp.Required()),
		mcp.WithString("url", mcp.Description("Data source URL; its last path segment picks the vocabulary")),
		mcp.WithString("columns", mcp.Description("Comma-separated table column keys")),
		mcp.WithString("fields", mcp.Description("Comma-separated form field names")),
	), s.handleSynthesizeData)

	// ── Persistence ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_page",
		mcp.WithDescription("Save the whole page to its storage slot, replacing the previous copy."),
	), s.handleSavePage)

	s.mcp.AddTool(mcp.NewTool("load_page",
		mcp.WithDescription("Load the page from its storage slot, replacing the current components."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleLoadPage)
}

type catalogEntry struct {
	Group catalog.Group `json:"group"`
	domain.ComponentDefinition
}

func (s *Server) handleListCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(catalogEntries())
}

func catalogEntries() []catalogEntry {
	grouped := catalog.Grouped()
	var out []catalogEntry
	for _, g := range []catalog.Group{catalog.GroupContainer, catalog.GroupBasic, catalog.GroupAdvanced} {
		for _, d := range grouped[g] {
			out = append(out, catalogEntry{Group: g, ComponentDefinition: d})
		}
	}
	return out
}

func (s *Server) handleSynthesizeData(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	kind, err := requireString(args, "kind")
	if err != nil {
		return nil, err
	}
	hints := mock.Hints{
		Columns: splitList(getString(args, "columns", "")),
		Fields:  splitList(getString(args, "fields", "")),
	}
	return jsonResult(s.synth.Synthesize(kind, getString(args, "url", ""), hints))
}

func (s *Server) handleSavePage(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.pages.Save(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Saved %d components to slot %s", len(s.pages.Components()), s.pages.SlotKey())), nil
}

func (s *Server) handleLoadPage(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.pages.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return textResult(fmt.Sprintf("No usable page in slot %s; components unchanged", s.pages.SlotKey())), nil
	}
	return jsonResult(cfg)
}
