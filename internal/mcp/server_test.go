package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summaryedit/internal/domain"
	"summaryedit/internal/editor"
	"summaryedit/internal/service"
)

const testPayload = `{
  "MeetingName": "Weekly",
  "Agenda": {"title": "Agenda", "blocks": [
    {"id": "a1", "type": "text", "content": "Hello"},
    {"id": "a2", "type": "text", "content": "World"}
  ]},
  "Decisions": {"title": "Decisions", "blocks": [
    {"id": "d1", "type": "text", "content": "ship it"}
  ]}
}`

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeClipboard) {
	t.Helper()
	sessions := service.NewSessionService(nil, &service.MockEmitter{}, zerolog.Nop(), editor.Options{IDs: &domain.SequenceSource{}})
	clip := &fakeClipboard{}
	return New(Deps{Sessions: sessions, Clipboard: clip, Log: zerolog.Nop()}), clip
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) string {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	return res.Content[0].(mcp.TextContent).Text
}

func openTestSummary(t *testing.T, s *Server) string {
	t.Helper()
	var view service.SessionView
	require.NoError(t, json.Unmarshal([]byte(call(t, s.handleOpenSummary, map[string]any{"payload": testPayload})), &view))
	return view.ID
}

func decodeEdit(t *testing.T, text string) editResult {
	t.Helper()
	var res editResult
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	return res
}

func TestOpenSummary_SetsActiveSession(t *testing.T) {
	s, _ := newTestServer(t)
	id := openTestSummary(t, s)

	got, err := s.resolveSessionID(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = s.resolveSessionID(map[string]any{"sessionId": "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", got)
}

func TestResolveSessionID_NoActive(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := s.resolveSessionID(map[string]any{})
	assert.Error(t, err)
}

func TestSplitMergeUndo(t *testing.T) {
	s, _ := newTestServer(t)
	openTestSummary(t, s)

	res := decodeEdit(t, call(t, s.handleSplitBlock, map[string]any{"blockId": "a1", "offset": float64(2)}))
	require.True(t, res.Changed)
	require.NotNil(t, res.Focus)
	assert.Equal(t, 4, res.Blocks)
	assert.Equal(t, []string{res.Focus.BlockID}, res.Selected)

	res = decodeEdit(t, call(t, s.handleMergeBlock, map[string]any{"blockId": res.Focus.BlockID}))
	require.True(t, res.Changed)
	assert.Equal(t, &editor.Focus{BlockID: "a1", Offset: 2}, res.Focus)

	res = decodeEdit(t, call(t, s.handleUndo, map[string]any{}))
	assert.True(t, res.Changed)
	assert.True(t, res.CanRedo)
	assert.Equal(t, 4, res.Blocks)
}

func TestStaleTargetsAreNoOps(t *testing.T) {
	s, _ := newTestServer(t)
	openTestSummary(t, s)

	res := decodeEdit(t, call(t, s.handleChangeBlockColor, map[string]any{"blockId": "gone", "color": "gray"}))
	assert.False(t, res.Changed)
	res = decodeEdit(t, call(t, s.handleDeleteSection, map[string]any{"sectionKey": "Nope"}))
	assert.False(t, res.Changed)
	assert.False(t, res.CanUndo)
}

func TestInvalidArguments(t *testing.T) {
	s, _ := newTestServer(t)
	openTestSummary(t, s)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"blockId": "a1", "type": "table"}
	_, err := s.handleChangeBlockType(context.Background(), req)
	assert.Error(t, err)

	req.Params.Arguments = map[string]any{"mode": "lasso"}
	_, err = s.handleSelectBlocks(context.Background(), req)
	assert.Error(t, err)
}

func TestSelectAndCopy(t *testing.T) {
	s, clip := newTestServer(t)
	openTestSummary(t, s)

	res := decodeEdit(t, call(t, s.handleSelectBlocks, map[string]any{"mode": "range", "blockId": "d1", "toBlockId": "a2"}))
	assert.Equal(t, []string{"a2", "d1"}, res.Selected)

	text := call(t, s.handleCopySelection, map[string]any{})
	assert.Equal(t, "World\nship it", text)
	assert.Equal(t, "World\nship it", clip.text)

	res = decodeEdit(t, call(t, s.handleDeleteBlocks, map[string]any{}))
	assert.True(t, res.Changed)
	assert.Empty(t, res.Selected)
	assert.Equal(t, 1, res.Blocks)
}

func TestPressKey(t *testing.T) {
	s, _ := newTestServer(t)
	openTestSummary(t, s)

	var out keyResult
	require.NoError(t, json.Unmarshal([]byte(call(t, s.handlePressKey, map[string]any{
		"key": "ArrowDown", "blockId": "a2", "cursor": float64(5),
	})), &out))
	assert.Equal(t, "navigate-down", out.Intent)
	assert.Equal(t, []string{"d1"}, out.Selected)

	require.NoError(t, json.Unmarshal([]byte(call(t, s.handlePressKey, map[string]any{
		"key": "Enter", "blockId": "d1", "cursor": float64(4),
	})), &out))
	assert.Equal(t, "split", out.Intent)
	assert.True(t, out.Changed)
	assert.True(t, out.Handled)
}

func TestPressKey_CopyWritesClipboard(t *testing.T) {
	s, clip := newTestServer(t)
	openTestSummary(t, s)
	call(t, s.handleSelectBlocks, map[string]any{"mode": "range", "blockId": "a1", "toBlockId": "a2"})

	var out keyResult
	require.NoError(t, json.Unmarshal([]byte(call(t, s.handlePressKey, map[string]any{
		"key": "c", "meta": true,
	})), &out))
	assert.Equal(t, "copy", out.Intent)
	assert.True(t, out.Handled)
	assert.False(t, out.Changed)
	assert.Equal(t, "Hello\nWorld", clip.text)
}

func TestSectionTools(t *testing.T) {
	s, _ := newTestServer(t)
	id := openTestSummary(t, s)

	call(t, s.handleRenameSection, map[string]any{"sectionKey": "Agenda", "title": "Topics"})
	call(t, s.handleMoveSection, map[string]any{"sectionKey": "Decisions", "delta": float64(-1)})
	res := decodeEdit(t, call(t, s.handleAddSection, map[string]any{}))
	require.NotNil(t, res.Focus)

	view, err := s.sessions.Get(id)
	require.NoError(t, err)
	doc := view.Document
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "Decisions", doc.Sections[0].Key)
	assert.Equal(t, "Topics", doc.Sections[1].Title)
	assert.Equal(t, editor.NewSectionTitle, doc.Sections[2].Title)
}

func TestExportMarkdown(t *testing.T) {
	s, _ := newTestServer(t)
	openTestSummary(t, s)

	var out exportResult
	require.NoError(t, json.Unmarshal([]byte(call(t, s.handleExportMarkdown, map[string]any{
		"meetingId": "m-1", "date": "2024-03-09",
	})), &out))
	assert.Equal(t, "Weekly.md", out.FileName)
	assert.Contains(t, out.Content, "# AI Generated Summary of Meeting: m-1 - Weekly\n\n## Date: 3/9/2024\n\n")
	assert.Contains(t, out.Content, "## Agenda\n\n- Hello\n- World\n\n")

	require.NoError(t, json.Unmarshal([]byte(call(t, s.handleExportMarkdown, map[string]any{"format": "html"})), &out))
	assert.Equal(t, "Weekly.html", out.FileName)
	assert.Contains(t, out.Content, "<h2>Agenda</h2>")
}

func TestCopyMarkdown(t *testing.T) {
	s, clip := newTestServer(t)
	openTestSummary(t, s)

	text := call(t, s.handleCopyMarkdown, map[string]any{"meetingId": "m-1", "date": "2024-03-09"})
	want := "# AI Generated Summary of Meeting: m-1 - Weekly\n\n## Date: 3/9/2024\n\n" +
		"## Agenda\n\n- Hello\n- World\n\n## Decisions\n\n- ship it\n\n"
	assert.Equal(t, want, text)
	assert.Equal(t, want, clip.text)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"date": "09/03/2024"}
	_, err := s.handleCopyMarkdown(context.Background(), req)
	assert.Error(t, err)
}

func TestCloseSession_Forget(t *testing.T) {
	s, _ := newTestServer(t)
	id := openTestSummary(t, s)

	assert.Equal(t, "Session "+id+" deleted", call(t, s.handleCloseSession, map[string]any{"forget": true}))
	_, err := s.sessions.Get(id)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = s.resolveSessionID(map[string]any{})
	assert.Error(t, err)

	id = openTestSummary(t, s)
	assert.Equal(t, "Session "+id+" closed", call(t, s.handleCloseSession, map[string]any{}))
}

func TestGetDocumentMarkdown(t *testing.T) {
	s, _ := newTestServer(t)
	openTestSummary(t, s)
	text := call(t, s.handleGetDocument, map[string]any{"format": "markdown"})
	assert.Equal(t, "## Agenda\n\n- Hello\n- World\n\n## Decisions\n\n- ship it\n\n", text)
}

func TestSessionIDFromURI(t *testing.T) {
	assert.Equal(t, "abc-123", sessionIDFromURI("summary://session/abc-123/document"))
	assert.Equal(t, "", sessionIDFromURI("summary://session/abc"))
	assert.Equal(t, "", sessionIDFromURI("notes://page/x/blocks"))
}

func TestDescribeBlockTruncatesRunes(t *testing.T) {
	long := ""
	for range 70 {
		long += "é"
	}
	got := describeBlock("b1", long)
	assert.Contains(t, got, "…")
	assert.NotContains(t, got, "\\x")
}
