package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type summaryInput struct{}

type elementInput struct {
	ID   string `json:"id,omitempty" jsonschema:"element identifier"`
	Name string `json:"name,omitempty" jsonschema:"canonical name or unique element name"`
}

type relationshipsInput struct {
	Element string `json:"element,omitempty" jsonschema:"element id or canonical name to filter by"`
}

type viewInput struct {
	Key string `json:"key" jsonschema:"view key"`
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// registerTools registers the workspace tools with the go-sdk server. The
// descriptions are shared with ListTools.
func (s *Server) registerTools() {
	descriptions := make(map[string]string)
	for _, tool := range s.ListTools() {
		descriptions[tool.Name] = tool.Description
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "c4_summary",
		Description: descriptions["c4_summary"],
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ summaryInput) (*mcp.CallToolResult, any, error) {
		return textResult(handleSummary(s.ws)), nil, nil
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "c4_element",
		Description: descriptions["c4_element"],
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in elementInput) (*mcp.CallToolResult, any, error) {
		text, err := handleElement(s.ws, in.ID, in.Name)
		if err != nil {
			return nil, nil, err
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "c4_relationships",
		Description: descriptions["c4_relationships"],
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in relationshipsInput) (*mcp.CallToolResult, any, error) {
		text, err := handleRelationships(s.ws, in.Element)
		if err != nil {
			return nil, nil, err
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "c4_view",
		Description: descriptions["c4_view"],
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in viewInput) (*mcp.CallToolResult, any, error) {
		text, err := handleView(s.ws, in.Key)
		if err != nil {
			return nil, nil, err
		}
		return textResult(text), nil, nil
	})
}

// registerResources registers the workspace resources with the go-sdk
// server.
func (s *Server) registerResources() {
	for _, res := range s.ListResources() {
		s.server.AddResource(&mcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MimeType,
		}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			text, err := s.ReadResource(ctx, req.Params.URI)
			if err != nil {
				return nil, mcp.ResourceNotFoundError(req.Params.URI)
			}
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: req.Params.URI, MIMEType: res.MimeType, Text: text},
				},
			}, nil
		})
	}
}
