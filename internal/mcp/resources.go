// ABOUTME: MCP resources exposing documents by URI.
// ABOUTME: Lets agents read document content via mdesk://document/{id}.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: "mdesk://document/{id}",
			Name:        "Document",
			Description: "Access individual documents by ID",
			MIMEType:    "text/markdown",
		},
		s.handleReadResource,
	)
}

func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	var id int64
	if _, err := fmt.Sscanf(req.Params.URI, "mdesk://document/%d", &id); err != nil {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	doc, ok := s.db.GetDocument(id)
	if !ok {
		return nil, fmt.Errorf("document %d not found", id)
	}

	content := fmt.Sprintf("# %s\n\n", doc.Title)
	if doc.FolderID != nil {
		if f, ok := s.db.GetFolder(*doc.FolderID); ok {
			content += fmt.Sprintf("**Folder:** %s\n\n", f.Name)
		}
	}
	content += doc.Content

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
