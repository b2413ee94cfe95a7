package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("build_form_page",
		mcp.WithPromptDescription("Guide through building a data-entry form with a submit button"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What the form collects, e.g. user registration"),
			mcp.RequiredArgument(),
		),
	), s.handleFormPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("build_dashboard",
		mcp.WithPromptDescription("Guide through building a dashboard of charts and a table backed by mock APIs"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("Topic of the dashboard, e.g. monthly sales"),
			mcp.RequiredArgument(),
		),
	), s.handleDashboardPrompt)
}

func (s *Server) handleFormPagePrompt(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a form page for: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a form page for "%s". Follow these steps:

1. Call list_catalog to see the available field types and their props.
2. Add a form with add_component (type "form").
3. Build the fields (input, select, datePicker, radio, checkbox) and a button, then place them in the form's children and replace the form with update_component.
4. Give each field a label and a defaultValue where it helps.
5. Call collect_form_data with the button's id to check the submission payload.
6. Call save_page when done.`, topic),
				},
			},
		},
	}, nil
}

func (s *Server) handleDashboardPrompt(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a dashboard for: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a dashboard about "%s". Follow these steps:

1. Add a row with two cols.
2. Put a barChart and a lineChart in the cols. Give each an "api" data source whose URL ends in a meaningful segment (month, quarter, region, sales, traffic) and a refreshInterval in seconds.
3. Add a table below the row with columns that fit the topic, also backed by an "api" data source.
4. Use synthesize_data to preview what each data source will return.
5. Call save_page when done.`, topic),
				},
			},
		},
	}, nil
}
