// ABOUTME: MCP prompts for common document workflows.
// ABOUTME: Provides pre-configured prompts for AI agent interactions.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "create-meeting-notes",
		Description: "Create structured meeting notes with attendees, agenda, and action items",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "meeting_title",
				Description: "Title of the meeting",
				Required:    true,
			},
			{
				Name:        "folder_id",
				Description: "Folder to file the notes in",
				Required:    false,
			},
		},
	}, s.getMeetingNotesPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "summarize-document",
		Description: "Generate a summary of an existing document",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "document_id",
				Description: "ID of the document to summarize",
				Required:    true,
			},
		},
	}, s.getSummarizeDocumentPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "organize-documents",
		Description: "Get suggestions for filing loose documents into folders",
	}, s.getOrganizeDocumentsPrompt)
}

func userPrompt(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: text,
				},
			},
		},
	}
}

func (s *Server) getMeetingNotesPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	meetingTitle, ok := req.Params.Arguments["meeting_title"]
	if !ok || meetingTitle == "" {
		meetingTitle = "Meeting"
	}
	filing := "at the root"
	if folder := req.Params.Arguments["folder_id"]; folder != "" {
		filing = "in folder " + folder
	}

	return userPrompt(fmt.Sprintf(`Create meeting notes for: %s

Please structure the notes with the following sections:

## Attendees
- [List attendees]

## Agenda
1. [Topic 1]
2. [Topic 2]

## Discussion Notes
[Key points discussed]

## Decisions Made
- [Decision 1]

## Action Items
- [ ] [Action 1] - @owner - Due: [date]
- [ ] [Action 2] - @owner - Due: [date]

Use the create_document tool to create this document %s.`, meetingTitle, filing)), nil
}

func (s *Server) getSummarizeDocumentPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	docID, ok := req.Params.Arguments["document_id"]
	if !ok || docID == "" {
		return nil, fmt.Errorf("document_id argument is required")
	}

	return userPrompt(fmt.Sprintf(`Please summarize the document with ID: %s

1. Use the get_document tool to retrieve the document
2. Read and analyze it
3. Create a concise summary highlighting:
   - Main topic or theme
   - Key points or takeaways
   - Important details or action items
4. Use the update_document tool to add a "Summary" section at the top`, docID)), nil
}

func (s *Server) getOrganizeDocumentsPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return userPrompt(`Help me organize my documents:

1. Use the get_tree tool to see folders and loose documents
2. Use get_document to skim documents whose titles are unclear
3. Suggest a folder layout that groups related documents
4. Propose which loose documents belong in which folder

List each suggested move as document ID -> folder name. Only call create_folder
and move_document after I confirm the plan.`), nil
}
