package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/page"
)

func (s *Server) registerFormTools() {
	s.mcp.AddTool(mcp.NewTool("find_enclosing_form",
		mcp.WithDescription("Find the nearest form that contains the given component."),
		mcp.WithString("id", mcp.Description("Component ID"), mcp.Required()),
	), s.handleFindEnclosingForm)

	s.mcp.AddTool(mcp.NewTool("collect_form_data",
		mcp.WithDescription("Build the submission payload of a form. Accepts a form id or the id of any component inside a form."),
		mcp.WithString("id", mcp.Description("Form or field component ID"), mcp.Required()),
	), s.handleCollectFormData)
}

func (s *Server) handleFindEnclosingForm(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	form, res := s.pages.EnclosingForm(id)
	switch res {
	case page.FormTargetMissing:
		return nil, fmt.Errorf("component not found: %s", id)
	case page.FormNoEnclosing:
		return textResult(fmt.Sprintf("Component %s is not inside a form", id)), nil
	}
	return jsonResult(form)
}

func (s *Server) handleCollectFormData(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	data, res := s.pages.FormData(id)
	switch res {
	case page.FormTargetMissing:
		return nil, fmt.Errorf("component not found: %s", id)
	case page.FormNoEnclosing:
		return nil, fmt.Errorf("component %s is not inside a form", id)
	}
	return jsonResult(data)
}
