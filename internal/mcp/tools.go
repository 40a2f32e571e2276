// ABOUTME: MCP tools for document and folder operations.
// ABOUTME: Maps CLI functionality to the MCP tool interface.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/editor"
	"github.com/harper/mdesk/internal/export"
	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/tree"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "create_document",
		Description: "Create a new markdown document, optionally inside a folder",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Document title (blank for Untitled Document)"},
				"content": {"type": "string", "description": "Document content (markdown)"},
				"folder_id": {"type": "integer", "description": "Optional folder ID"}
			}
		}`),
	}, s.handleCreateDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_documents",
		Description: "List documents without their content, optionally within one folder",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"folder_id": {"type": "integer", "description": "Only documents in this folder"}
			}
		}`),
	}, s.handleListDocuments)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_document",
		Description: "Get a document by ID",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Document ID"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "update_document",
		Description: "Update a document's title or content",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Document ID"},
				"title": {"type": "string", "description": "New title"},
				"content": {"type": "string", "description": "New content"}
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "move_document",
		Description: "Move a document into a folder, or to the root when folder_id is null",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Document ID"},
				"folder_id": {"type": ["integer", "null"], "description": "Target folder ID or null for root"}
			},
			"required": ["id"]
		}`),
	}, s.handleMoveDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Document ID"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "create_folder",
		Description: "Create a folder",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Folder name"}
			},
			"required": ["name"]
		}`),
	}, s.handleCreateFolder)

	s.server.AddTool(&mcp.Tool{
		Name:        "rename_folder",
		Description: "Rename a folder",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Folder ID"},
				"name": {"type": "string", "description": "New name"}
			},
			"required": ["id", "name"]
		}`),
	}, s.handleRenameFolder)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_folder",
		Description: "Delete a folder together with every document inside it",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Folder ID"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteFolder)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_tree",
		Description: "Get the folder tree: root documents, folders with their documents, and orphans",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleGetTree)

	s.server.AddTool(&mcp.Tool{
		Name:        "search_documents",
		Description: "Case-insensitive regex search across all documents (invalid patterns match literally)",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search pattern"},
				"limit": {"type": "integer", "description": "Max documents", "default": 10}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchDocuments)

	s.server.AddTool(&mcp.Tool{
		Name:        "replace_in_document",
		Description: "Replace every match of a case-sensitive regex in one document",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Document ID"},
				"pattern": {"type": "string", "description": "Pattern to replace"},
				"replacement": {"type": "string", "description": "Replacement text"}
			},
			"required": ["id", "pattern", "replacement"]
		}`),
	}, s.handleReplaceInDocument)

	s.server.AddTool(&mcp.Tool{
		Name:        "export_document",
		Description: "Export a document as markdown with front matter or as a standalone HTML page",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Document ID"},
				"format": {"type": "string", "description": "Format: markdown or html", "default": "markdown"}
			},
			"required": ["id"]
		}`),
	}, s.handleExportDocument)
}

// DocumentInfo is a document without its content.
type DocumentInfo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	FolderID  *int64 `json:"folderId"`
	WordCount int    `json:"words"`
	Modified  int64  `json:"modified"`
}

type SearchHit struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Matches int    `json:"matches"`
}

func info(d *models.Document) DocumentInfo {
	return DocumentInfo{
		ID:        d.ID,
		Title:     d.Title,
		FolderID:  d.FolderID,
		WordCount: editor.WordCount(d.Content),
		Modified:  d.Modified.UnixMilli(),
	}
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	r := textResult(format, args...)
	r.IsError = true
	return r
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}

// Tool handlers.
func (s *Server) handleCreateDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		FolderID *int64 `json:"folder_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	doc, err := s.db.CreateDocumentIn(params.Title, params.Content, params.FolderID)
	if docdb.IsNotFound(err, docdb.KindFolder) {
		return errorResult("folder %d not found", *params.FolderID), nil
	}
	if err != nil {
		return errorResult("failed to create document: %v", err), nil
	}

	return textResult("Created document %d", doc.ID), nil
}

func (s *Server) handleListDocuments(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		FolderID *int64 `json:"folder_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	docs := s.db.AllDocuments()
	if params.FolderID != nil {
		docs = s.db.FolderDocuments(*params.FolderID)
	}

	out := make([]DocumentInfo, 0, len(docs))
	for _, d := range docs {
		out = append(out, info(d))
	}
	return jsonResult(out), nil
}

func (s *Server) handleGetDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	doc, ok := s.db.GetDocument(params.ID)
	if !ok {
		return errorResult("document %d not found", params.ID), nil
	}
	return jsonResult(docdb.FromDocument(doc)), nil
}

func (s *Server) handleUpdateDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID      int64   `json:"id"`
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	patch := models.DocumentPatch{Title: params.Title, Content: params.Content}
	if patch.Empty() {
		return errorResult("nothing to update: provide title or content"), nil
	}
	doc, err := s.db.UpdateDocument(params.ID, patch)
	if err != nil {
		return errorResult("failed to update document: %v", err), nil
	}
	return textResult("Updated document %d", doc.ID), nil
}

func (s *Server) handleMoveDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID       int64  `json:"id"`
		FolderID *int64 `json:"folder_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	if _, err := s.db.MoveDocument(params.ID, params.FolderID); err != nil {
		return errorResult("failed to move document: %v", err), nil
	}
	if params.FolderID == nil {
		return textResult("Moved document %d to root", params.ID), nil
	}
	return textResult("Moved document %d to folder %d", params.ID, *params.FolderID), nil
}

func (s *Server) handleDeleteDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	removed, err := s.db.DeleteDocument(params.ID)
	if err != nil {
		return errorResult("failed to delete document: %v", err), nil
	}
	if !removed {
		return errorResult("document %d not found", params.ID), nil
	}
	return textResult("Deleted document %d", params.ID), nil
}

func (s *Server) handleCreateFolder(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	folder, err := s.db.CreateFolder(params.Name)
	if errors.Is(err, docdb.ErrValidationSkipped) {
		return errorResult("folder name cannot be empty"), nil
	}
	if err != nil {
		return errorResult("failed to create folder: %v", err), nil
	}
	return textResult("Created folder %d", folder.ID), nil
}

func (s *Server) handleRenameFolder(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	_, err := s.db.RenameFolder(params.ID, params.Name)
	if errors.Is(err, docdb.ErrValidationSkipped) {
		return errorResult("folder name cannot be empty"), nil
	}
	if err != nil {
		return errorResult("failed to rename folder: %v", err), nil
	}
	return textResult("Renamed folder %d", params.ID), nil
}

func (s *Server) handleDeleteFolder(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	members := len(s.db.FolderDocuments(params.ID))
	removed, err := s.db.DeleteFolder(params.ID)
	if err != nil {
		return errorResult("failed to delete folder: %v", err), nil
	}
	if !removed {
		return errorResult("folder %d not found", params.ID), nil
	}
	return textResult("Deleted folder %d and %d documents", params.ID, members), nil
}

func (s *Server) handleGetTree(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(tree.Project(s.db)), nil
}

func (s *Server) handleSearchDocuments(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	params.Limit = 10 // default
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}
	if params.Query == "" {
		return errorResult("query cannot be empty"), nil
	}

	hits := []SearchHit{}
	for _, d := range s.db.AllDocuments() {
		n := len(editor.Find(d.Title+"\n"+d.Content, params.Query))
		if n == 0 {
			continue
		}
		hits = append(hits, SearchHit{ID: d.ID, Title: d.Title, Matches: n})
		if params.Limit > 0 && len(hits) >= params.Limit {
			break
		}
	}
	return jsonResult(hits), nil
}

func (s *Server) handleReplaceInDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID          int64  `json:"id"`
		Pattern     string `json:"pattern"`
		Replacement string `json:"replacement"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	doc, ok := s.db.GetDocument(params.ID)
	if !ok {
		return errorResult("document %d not found", params.ID), nil
	}
	content, n := editor.ReplaceAll(doc.Content, params.Pattern, params.Replacement)
	if n == 0 {
		return textResult("No matches in document %d", params.ID), nil
	}
	if _, err := s.db.UpdateDocument(params.ID, models.DocumentPatch{Content: &content}); err != nil {
		return errorResult("failed to update document: %v", err), nil
	}
	return textResult("Replaced %d matches in document %d", n, params.ID), nil
}

func (s *Server) handleExportDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID     int64  `json:"id"`
		Format string `json:"format"`
	}
	params.Format = "markdown"
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	format, err := export.ParseFormat(params.Format)
	if err != nil || format == export.PDF {
		return errorResult("unsupported format %q: use markdown or html", params.Format), nil
	}
	doc, ok := s.db.GetDocument(params.ID)
	if !ok {
		return errorResult("document %d not found", params.ID), nil
	}

	folder := ""
	if doc.FolderID != nil {
		if f, ok := s.db.GetFolder(*doc.FolderID); ok {
			folder = f.Name
		}
	}
	art, err := export.ExportDocument(doc, format, export.NewFrontMatter(doc, folder))
	if err != nil {
		return errorResult("failed to export document: %v", err), nil
	}
	return textResult("%s", art.Data), nil
}
