package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/domain"
	"summaryedit/internal/editor"
	"summaryedit/internal/markdown"
)

func (s *Server) registerMarkdownTools() {
	// ── export_markdown ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_markdown",
		mcp.WithDescription("Export the document as a markdown file body with the meeting preamble, or as HTML"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("meetingId", mcp.Description("Meeting ID for the preamble (optional)")),
		mcp.WithString("date", mcp.Description("Meeting date as YYYY-MM-DD (optional, defaults to today)")),
		mcp.WithString("format", mcp.Description("Output format"), mcp.Enum("md", "html")),
	), s.handleExportMarkdown)

	// ── copy_markdown ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("copy_markdown",
		mcp.WithDescription("Copy the whole document as markdown, including the meeting preamble, to the clipboard and return it"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("meetingId", mcp.Description("Meeting ID for the preamble (optional)")),
		mcp.WithString("date", mcp.Description("Meeting date as YYYY-MM-DD (optional, defaults to today)")),
	), s.handleCopyMarkdown)

	// ── copy_selection ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("copy_selection",
		mcp.WithDescription("Copy the selected blocks' text (one line per non-empty block) to the clipboard and return it"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
	), s.handleCopySelection)
}

// exportResult is the response of export_markdown.
type exportResult struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

func (s *Server) handleExportMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	view, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	md, err := exportMarkdown(req, view.Document)
	if err != nil {
		return nil, err
	}
	res := exportResult{FileName: markdown.FileName(view.Document), Content: md}

	if req.GetString("format", "md") == "html" {
		html, err := markdown.RenderHTML(md)
		if err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		res.Content = string(html)
		res.FileName = markdown.HTMLFileName(view.Document)
	}
	return jsonResult(res)
}

// exportMarkdown renders the document with the preamble built from the
// meetingId and date arguments.
func exportMarkdown(req mcp.CallToolRequest, doc domain.Document) (string, error) {
	date := time.Now()
	if d := req.GetString("date", ""); d != "" {
		var err error
		if date, err = time.Parse(time.DateOnly, d); err != nil {
			return "", fmt.Errorf("parse date: %w", err)
		}
	}
	return markdown.Export(doc, markdown.Meta{
		ID:    req.GetString("meetingId", ""),
		Title: doc.Title,
		Date:  date,
	}), nil
}

func (s *Server) handleCopyMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	view, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	md, err := exportMarkdown(req, view.Document)
	if err != nil {
		return nil, err
	}
	if s.clipboard != nil {
		if err := s.clipboard.WriteAll(md); err != nil {
			return nil, fmt.Errorf("write clipboard: %w", err)
		}
	}
	return textResult(md), nil
}

func (s *Server) handleCopySelection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	var text string
	err = s.sessions.Do(ctx, id, func(ed *editor.Session) error {
		text = ed.SelectedText()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return textResult("Nothing to copy"), nil
	}
	if s.clipboard != nil {
		if err := s.clipboard.WriteAll(text); err != nil {
			return nil, fmt.Errorf("write clipboard: %w", err)
		}
	}
	return textResult(text), nil
}
