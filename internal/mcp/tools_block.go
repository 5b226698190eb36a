package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/editor"
)

func (s *Server) registerBlockTools() {
	// ── change_block_content ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("change_block_content",
		mcp.WithDescription("Replace the text of a block"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("sectionKey", mcp.Description("Key of the section holding the block"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("New content"), mcp.Required()),
	), s.handleChangeBlockContent)

	// ── change_block_type ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("change_block_type",
		mcp.WithDescription("Change how a block renders"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Block type"), mcp.Required(),
			mcp.Enum("text", "bullet", "heading1", "heading2")),
	), s.handleChangeBlockType)

	// ── change_block_color ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("change_block_color",
		mcp.WithDescription("Change a block's color"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Color"), mcp.Required(), mcp.Enum("default", "gray")),
	), s.handleChangeBlockColor)

	// ── split_block ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("split_block",
		mcp.WithDescription("Insert a new block after blockId. With offset the block's text is cut at that character; otherwise tail becomes the new block's text and the original is kept."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("offset", mcp.Description("Character offset to split at (optional)")),
		mcp.WithString("tail", mcp.Description("Text of the new block when offset is omitted")),
	), s.handleSplitBlock)

	// ── merge_block ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("merge_block",
		mcp.WithDescription("Merge a block into the previous block of its section (Backspace at start of line). Without a previous block, or when the block is empty, it is simply deleted."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleMergeBlock)

	// ── delete_blocks (destructive) ────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_blocks",
		mcp.WithDescription("Delete blocks by id. Without blockIds the current selection is deleted."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithArray("blockIds", mcp.Description("Block IDs to delete"), mcp.WithStringItems()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlocks)
}

func (s *Server) handleChangeBlockContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireString(req, "sectionKey")
	if err != nil {
		return nil, err
	}
	blockID, err := requireString(req, "blockId")
	if err != nil {
		return nil, err
	}
	content := req.GetString("content", "")
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return ed.ChangeContent(key, blockID, content), nil
	})
}

func (s *Server) handleChangeBlockType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req, "blockId")
	if err != nil {
		return nil, err
	}
	t, err := parseBlockType(req.GetString("type", ""))
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return ed.ChangeType(blockID, t), nil
	})
}

func (s *Server) handleChangeBlockColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req, "blockId")
	if err != nil {
		return nil, err
	}
	c, err := parseColor(req.GetString("color", ""))
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return ed.ChangeColor(blockID, c), nil
	})
}

func (s *Server) handleSplitBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req, "blockId")
	if err != nil {
		return nil, err
	}
	offset := req.GetInt("offset", -1)
	tail := req.GetString("tail", "")
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		var f *editor.Focus
		var ok bool
		if offset >= 0 {
			f, ok = ed.SplitBlockAt(blockID, offset)
		} else {
			f, ok = ed.SplitBlock(blockID, tail)
		}
		return ok, f
	})
}

func (s *Server) handleMergeBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req, "blockId")
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		b, found := ed.Document().Block(blockID)
		if !found {
			return false, nil
		}
		f, ok := ed.MergeIntoPrevious(blockID, b.Content)
		return ok, f
	})
}

func (s *Server) handleDeleteBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := req.GetStringSlice("blockIds", nil)
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		if len(ids) == 0 {
			return ed.DeleteSelection(), nil
		}
		return ed.DeleteBlocks(ids), nil
	})
}
