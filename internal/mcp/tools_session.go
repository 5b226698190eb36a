package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/markdown"
)

func (s *Server) registerSessionTools() {
	// ── open_summary ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_summary",
		mcp.WithDescription("Open an AI meeting summary for editing. Pass the JSON payload inline or a path to a payload file. The new session becomes active."),
		mcp.WithString("payload", mcp.Description("Summary JSON: {\"MeetingName\": ..., \"<sectionKey>\": {\"title\": ..., \"blocks\": [...]}}")),
		mcp.WithString("path", mcp.Description("Path to a summary JSON file (alternative to payload)")),
	), s.handleOpenSummary)

	// ── new_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("new_document",
		mcp.WithDescription("Start a session on the default empty summary (Agenda, Decisions, Action Items, Closing Remarks). The new session becomes active."),
	), s.handleNewDocument)

	// ── list_sessions ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List open and saved editing sessions"),
	), s.handleListSessions)

	// ── set_active_session ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_session",
		mcp.WithDescription("Set the active session for subsequent tool calls. Saved sessions are restored first."),
		mcp.WithString("sessionId", mcp.Description("Session ID"), mcp.Required()),
	), s.handleSetActiveSession)

	// ── get_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get the current document, selection and undo state of a session"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("format", mcp.Description("json (default) or markdown")),
	), s.handleGetDocument)

	// ── save_session ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_session",
		mcp.WithDescription("Persist a session's history now"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
	), s.handleSaveSession)

	// ── close_session ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Save and close a session, or discard it with forget"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithBoolean("forget", mcp.Description("Discard unsaved changes and delete the stored history (default false)")),
	), s.handleCloseSession)
}

func (s *Server) handleOpenSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := req.GetString("payload", "")
	if path := req.GetString("path", ""); payload == "" && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		payload = string(data)
	}
	if payload == "" {
		return nil, fmt.Errorf("payload or path is required")
	}

	id, err := s.sessions.OpenPayload(ctx, []byte(payload))
	if err != nil {
		return nil, err
	}
	s.setActive(id)
	return s.sessionView(id)
}

func (s *Server) handleNewDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.sessions.OpenDefault(ctx)
	if err != nil {
		return nil, err
	}
	s.setActive(id)
	return s.sessionView(id)
}

func (s *Server) handleListSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(list)
}

func (s *Server) handleSetActiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "sessionId")
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Restore(ctx, id); err != nil {
		return nil, err
	}
	s.setActive(id)
	return textResult(fmt.Sprintf("Active session set to %s", id)), nil
}

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if req.GetString("format", "json") == "markdown" {
		view, err := s.sessions.Get(id)
		if err != nil {
			return nil, err
		}
		return textResult(markdown.Serialize(view.Document)), nil
	}
	return s.sessionView(id)
}

func (s *Server) handleSaveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Session %s saved", id)), nil
}

func (s *Server) handleCloseSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	verb := "closed"
	if req.GetBool("forget", false) {
		verb = "deleted"
		err = s.sessions.Delete(ctx, id)
	} else {
		err = s.sessions.Close(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.activeSessionID == id {
		s.activeSessionID = ""
	}
	s.mu.Unlock()
	return textResult(fmt.Sprintf("Session %s %s", id, verb)), nil
}

func (s *Server) sessionView(id string) (*mcp.CallToolResult, error) {
	view, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(view)
}
