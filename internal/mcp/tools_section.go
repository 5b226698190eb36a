package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/editor"
)

func (s *Server) registerSectionTools() {
	// ── rename_section ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_section",
		mcp.WithDescription("Change a section's display title. The section key is unchanged."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("sectionKey", mcp.Description("Section key"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
	), s.handleRenameSection)

	// ── delete_section (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_section",
		mcp.WithDescription("Remove a section and all of its blocks"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("sectionKey", mcp.Description("Section key"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSection)

	// ── add_section ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_section",
		mcp.WithDescription("Append a \"New Section\" with one empty block, which becomes selected"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
	), s.handleAddSection)

	// ── move_section ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_section",
		mcp.WithDescription("Move a section up (negative delta) or down (positive delta); clamped to the document"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("sectionKey", mcp.Description("Section key"), mcp.Required()),
		mcp.WithNumber("delta", mcp.Description("Positions to move"), mcp.Required()),
	), s.handleMoveSection)
}

func (s *Server) handleRenameSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireString(req, "sectionKey")
	if err != nil {
		return nil, err
	}
	title := req.GetString("title", "")
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return ed.RenameSection(key, title), nil
	})
}

func (s *Server) handleDeleteSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireString(req, "sectionKey")
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return ed.DeleteSection(key), nil
	})
}

func (s *Server) handleAddSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		f := ed.AddSection()
		return f != nil, f
	})
}

func (s *Server) handleMoveSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireString(req, "sectionKey")
	if err != nil {
		return nil, err
	}
	delta := req.GetInt("delta", 0)
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return ed.MoveSection(key, delta), nil
	})
}
