package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
)

func (s *Server) registerPageTools() {
	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Add a component to the root level of the page, starting from the catalog defaults for its type."),
		mcp.WithString("type",
			mcp.Description("Component type: row, col, input, select, datePicker, radio, checkbox, button, form, table, barChart, lineChart"),
			mcp.Required(),
		),
		mcp.WithString("props", mcp.Description("JSON object merged over the default props (optional)")),
	), s.handleAddComponent)

	// ── update_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component",
		mcp.WithDescription("Replace a root-level component wholesale. Nested components are changed by replacing their root ancestor. Unknown ids are ignored."),
		mcp.WithString("component", mcp.Description("Full component as JSON, including its id"), mcp.Required()),
	), s.handleUpdateComponent)

	// ── remove_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_component",
		mcp.WithDescription("Remove a root-level component. Clears the selection if it pointed at this id."),
		mcp.WithString("id", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveComponent)

	// ── select_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_component",
		mcp.WithDescription("Set the selected component. Pass an empty id to clear the selection."),
		mcp.WithString("id", mcp.Description("Component ID, or empty")),
	), s.handleSelectComponent)

	// ── clear_components ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("clear_components",
		mcp.WithDescription("Remove every component from the page and clear the selection."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearComponents)

	// ── list_components ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("Return the component tree of the page and the selected id."),
	), s.handleListComponents)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	kind, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}

	var overrides map[string]any
	if raw := getString(args, "props", ""); raw != "" {
		if err := parseJSON(raw, &overrides); err != nil {
			return nil, fmt.Errorf("invalid props JSON: %w", err)
		}
	}

	c, err := s.pages.AddFromCatalog(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		updated := *c
		updated.Props = make(map[string]any, len(c.Props)+len(overrides))
		for k, v := range c.Props {
			updated.Props[k] = v
		}
		for k, v := range overrides {
			updated.Props[k] = v
		}
		s.pages.Update(ctx, &updated)
		c = &updated
	}
	return jsonResult(c)
}

func (s *Server) handleUpdateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := requireString(req.GetArguments(), "component")
	if err != nil {
		return nil, err
	}
	var c domain.Component
	if err := parseJSON(raw, &c); err != nil {
		return nil, fmt.Errorf("invalid component JSON: %w", err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("component id is required")
	}
	if !s.pages.Update(ctx, &c) {
		return textResult(fmt.Sprintf("No root-level component with id %s; nothing changed", c.ID)), nil
	}
	return textResult(fmt.Sprintf("Updated component %s", c.ID)), nil
}

func (s *Server) handleRemoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	if !s.pages.Remove(ctx, id) {
		return textResult(fmt.Sprintf("No root-level component with id %s; nothing removed", id)), nil
	}
	return textResult(fmt.Sprintf("Removed component %s", id)), nil
}

func (s *Server) handleSelectComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := getString(req.GetArguments(), "id", "")
	s.pages.Select(ctx, id)
	if id == "" {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Selected %s", id)), nil
}

func (s *Server) handleClearComponents(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.pages.Clear(ctx)
	return textResult("Page cleared"), nil
}

type pageSnapshot struct {
	Selected   string              `json:"selected"`
	Components []*domain.Component `json:"components"`
}

func (s *Server) handleListComponents(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(pageSnapshot{Selected: s.pages.Selected(), Components: s.pages.Components()})
}
