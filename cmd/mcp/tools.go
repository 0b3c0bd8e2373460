package main

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/acrossmena/hs-classifier/internal/adapters/presenter"
	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

const classifyToolName = "classify_hs_code"

func newServer(classifier ports.Classifier) *server.MCPServer {
	s := server.NewMCPServer("hs-classifier", serverVersion, server.WithToolCapabilities(false))
	s.AddTool(classifyTool(), classifyHandler(classifier))
	return s
}

func classifyTool() mcp.Tool {
	return mcp.NewTool(classifyToolName,
		mcp.WithDescription("Propose HS customs codes for a goods description and return the matching tariff bands with localized descriptions."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Goods description in any language, for example \"chewing gum\" or \"علكة\"."),
		),
	)
}

func classifyHandler(classifier ports.Classifier) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		outcome := classifier.Classify(ctx, query)
		text := strings.TrimRight(presenter.Text(outcome), "\n")
		if outcome.Kind == domain.OutcomeFailure {
			return mcp.NewToolResultError(text), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}
