// ABOUTME: Tests for MCP tool, resource, and prompt handlers.
// ABOUTME: Calls handlers directly against an in-memory document store.

package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newTestServer(t *testing.T) (*Server, *docdb.DB) {
	t.Helper()
	db := docdb.New(docdb.NewKVRepository(store.NewMemory()))
	require.NoError(t, db.Init())
	return NewServer(db, "test", nil), db
}

func call(t *testing.T, h handler, args string) (string, bool) {
	t.Helper()
	res, err := h(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(args)},
	})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestDocumentLifecycle(t *testing.T) {
	s, db := newTestServer(t)

	out, isErr := call(t, s.handleCreateFolder, `{"name":"Work"}`)
	require.False(t, isErr, out)
	assert.Equal(t, "Created folder 1", out)

	out, isErr = call(t, s.handleCreateDocument, `{"title":"Plan","content":"ship it","folder_id":1}`)
	require.False(t, isErr, out)
	assert.Equal(t, "Created document 1", out)
	doc, ok := db.GetDocument(1)
	require.True(t, ok)
	assert.True(t, doc.InFolder(1))

	out, isErr = call(t, s.handleUpdateDocument, `{"id":1,"content":"ship it now"}`)
	require.False(t, isErr, out)

	out, isErr = call(t, s.handleGetDocument, `{"id":1}`)
	require.False(t, isErr, out)
	var rec docdb.DocumentRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "ship it now", rec.Content)
	assert.Equal(t, int64(1), *rec.FolderID)

	out, isErr = call(t, s.handleMoveDocument, `{"id":1,"folder_id":null}`)
	require.False(t, isErr, out)
	doc, _ = db.GetDocument(1)
	assert.True(t, doc.IsRoot())

	out, isErr = call(t, s.handleDeleteDocument, `{"id":1}`)
	require.False(t, isErr, out)
	assert.Empty(t, db.AllDocuments())

	_, isErr = call(t, s.handleDeleteDocument, `{"id":1}`)
	assert.True(t, isErr)
}

func TestCreateDocumentMissingFolder(t *testing.T) {
	s, db := newTestServer(t)

	out, isErr := call(t, s.handleCreateDocument, `{"title":"x","folder_id":9}`)
	assert.True(t, isErr)
	assert.Contains(t, out, "folder 9 not found")
	assert.Empty(t, db.AllDocuments())
}

func TestCreateDocumentInFolderIsOneChange(t *testing.T) {
	s, db := newTestServer(t)
	_, err := db.CreateFolder("Work")
	require.NoError(t, err)

	var changes []docdb.Change
	cancel := db.Subscribe(func(c docdb.Change) { changes = append(changes, c) })
	defer cancel()

	out, isErr := call(t, s.handleCreateDocument, `{"title":"Plan","folder_id":1}`)
	require.False(t, isErr, out)
	require.Len(t, changes, 1)
	assert.Equal(t, docdb.OpCreate, changes[0].Op)
}

func TestUpdateRequiresAField(t *testing.T) {
	s, db := newTestServer(t)
	_, err := db.CreateDocument("a", "b")
	require.NoError(t, err)

	_, isErr := call(t, s.handleUpdateDocument, `{"id":1}`)
	assert.True(t, isErr)

	out, isErr := call(t, s.handleUpdateDocument, `{"id":5,"title":"x"}`)
	assert.True(t, isErr)
	assert.Contains(t, out, "not found")
}

func TestFolderTools(t *testing.T) {
	s, db := newTestServer(t)

	_, isErr := call(t, s.handleCreateFolder, `{"name":"  "}`)
	assert.True(t, isErr)

	_, err := db.CreateFolder("Old")
	require.NoError(t, err)
	_, isErr = call(t, s.handleRenameFolder, `{"id":1,"name":"New"}`)
	require.False(t, isErr)
	f, _ := db.GetFolder(1)
	assert.Equal(t, "New", f.Name)

	for i := 0; i < 2; i++ {
		d, err := db.CreateDocument("d", "")
		require.NoError(t, err)
		_, err = db.MoveDocument(d.ID, &f.ID)
		require.NoError(t, err)
	}
	out, isErr := call(t, s.handleDeleteFolder, `{"id":1}`)
	require.False(t, isErr)
	assert.Equal(t, "Deleted folder 1 and 2 documents", out)
	assert.Empty(t, db.AllDocuments())
}

func TestTreeAndList(t *testing.T) {
	s, db := newTestServer(t)
	f, err := db.CreateFolder("Work")
	require.NoError(t, err)
	_, err = db.CreateDocument("Loose", "one two")
	require.NoError(t, err)
	d, err := db.CreateDocument("Filed", "")
	require.NoError(t, err)
	_, err = db.MoveDocument(d.ID, &f.ID)
	require.NoError(t, err)

	out, _ := call(t, s.handleGetTree, `{}`)
	assert.Contains(t, out, `"Loose"`)
	assert.Contains(t, out, `"Work"`)

	out, _ = call(t, s.handleListDocuments, `{"folder_id":1}`)
	var infos []DocumentInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "Filed", infos[0].Title)

	out, _ = call(t, s.handleListDocuments, `{}`)
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, 2, infos[0].WordCount)
}

func TestSearchAndReplace(t *testing.T) {
	s, db := newTestServer(t)
	_, err := db.CreateDocument("Alpha", "Go go GO")
	require.NoError(t, err)
	_, err = db.CreateDocument("Beta", "nothing here")
	require.NoError(t, err)

	out, _ := call(t, s.handleSearchDocuments, `{"query":"go"}`)
	var hits []SearchHit
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, 3, hits[0].Matches)

	out, isErr := call(t, s.handleReplaceInDocument, `{"id":1,"pattern":"go","replacement":"run"}`)
	require.False(t, isErr)
	assert.Equal(t, "Replaced 1 matches in document 1", out)
	doc, _ := db.GetDocument(1)
	assert.Equal(t, "Go run GO", doc.Content)
}

func TestExportDocument(t *testing.T) {
	s, db := newTestServer(t)
	_, err := db.CreateDocument("Plan", "**bold**")
	require.NoError(t, err)

	out, isErr := call(t, s.handleExportDocument, `{"id":1}`)
	require.False(t, isErr)
	assert.True(t, strings.HasPrefix(out, "---\ntitle: Plan\n"), out)

	out, isErr = call(t, s.handleExportDocument, `{"id":1,"format":"html"}`)
	require.False(t, isErr)
	assert.Contains(t, out, "<strong>bold</strong>")

	_, isErr = call(t, s.handleExportDocument, `{"id":1,"format":"pdf"}`)
	assert.True(t, isErr)
}

func TestReadResource(t *testing.T) {
	s, db := newTestServer(t)
	f, err := db.CreateFolder("Work")
	require.NoError(t, err)
	d, err := db.CreateDocument("Plan", "body")
	require.NoError(t, err)
	_, err = db.MoveDocument(d.ID, &f.ID)
	require.NoError(t, err)

	res, err := s.handleReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "mdesk://document/1"},
	})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "# Plan\n\n**Folder:** Work\n\nbody", res.Contents[0].Text)

	_, err = s.handleReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "mdesk://document/99"},
	})
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.getMeetingNotesPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"meeting_title": "Standup", "folder_id": "2"}},
	})
	require.NoError(t, err)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Standup")
	assert.Contains(t, text, "in folder 2")

	_, err = s.getSummarizeDocumentPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{}},
	})
	assert.Error(t, err)
}
