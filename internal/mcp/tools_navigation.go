package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/editor"
)

func (s *Server) registerNavigationTools() {
	// ── select_blocks ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_blocks",
		mcp.WithDescription("Change the block selection. point selects blockId; range selects everything between blockId and toBlockId in document order; extend shift-extends from the anchor to blockId; drag_begin/drag_extend/drag_end replay a mouse drag; clear empties the selection."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("mode", mcp.Description("Selection mode"), mcp.Required(),
			mcp.Enum("point", "range", "extend", "drag_begin", "drag_extend", "drag_end", "clear")),
		mcp.WithString("blockId", mcp.Description("Block ID (not needed for clear and drag_end)")),
		mcp.WithString("toBlockId", mcp.Description("Other end of a range selection")),
	), s.handleSelectBlocks)

	// ── navigate ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Move the selection to the previous or next block in document order, crossing sections"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("blockId", mcp.Description("Block to move from"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("Direction"), mcp.Required(), mcp.Enum("up", "down")),
	), s.handleNavigate)

	// ── press_key ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("press_key",
		mcp.WithDescription("Send a keystroke to the editor as a user would type it (Enter, Backspace, Delete, ArrowUp, ArrowDown, or z/c with meta/ctrl)"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("key", mcp.Description("Key name"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block whose input has focus")),
		mcp.WithNumber("cursor", mcp.Description("Caret position in characters within the block")),
		mcp.WithBoolean("shift", mcp.Description("Shift held")),
		mcp.WithBoolean("meta", mcp.Description("Meta/Cmd held")),
		mcp.WithBoolean("ctrl", mcp.Description("Ctrl held")),
	), s.handlePressKey)
}

func (s *Server) handleSelectBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := requireString(req, "mode")
	if err != nil {
		return nil, err
	}
	blockID := req.GetString("blockId", "")
	to := req.GetString("toBlockId", "")

	var fn func(*editor.Session) bool
	switch mode {
	case "point":
		fn = func(ed *editor.Session) bool { return ed.PointSelect(blockID) }
	case "range":
		fn = func(ed *editor.Session) bool { return ed.RangeSelect(blockID, to) }
	case "extend":
		fn = func(ed *editor.Session) bool { return ed.ShiftExtend(blockID) }
	case "drag_begin":
		fn = func(ed *editor.Session) bool { return ed.BeginDrag(blockID) }
	case "drag_extend":
		fn = func(ed *editor.Session) bool { return ed.ExtendDrag(blockID) }
	case "drag_end":
		fn = func(ed *editor.Session) bool { ed.EndDrag(); return true }
	case "clear":
		fn = func(ed *editor.Session) bool { ed.ClearSelection(); return true }
	default:
		return nil, fmt.Errorf("unknown selection mode %q", mode)
	}

	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return fn(ed), nil
	})
}

func (s *Server) handleNavigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req, "blockId")
	if err != nil {
		return nil, err
	}
	dir, err := parseDirection(req.GetString("direction", ""))
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, req, func(ed *editor.Session) (bool, *editor.Focus) {
		return ed.Navigate(blockID, dir), nil
	})
}

// keyResult is the response of press_key.
type keyResult struct {
	editResult
	Intent    string `json:"intent"`
	Handled   bool   `json:"handled"`
	Clipboard string `json:"clipboard,omitempty"`
}

func (s *Server) handlePressKey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := requireString(req, "key")
	if err != nil {
		return nil, err
	}
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	ev := editor.KeyEvent{
		Key:     key,
		BlockID: req.GetString("blockId", ""),
		Cursor:  req.GetInt("cursor", 0),
		Shift:   req.GetBool("shift", false),
		Meta:    req.GetBool("meta", false),
		Ctrl:    req.GetBool("ctrl", false),
	}

	var res keyResult
	err = s.sessions.Do(ctx, id, func(ed *editor.Session) error {
		out := ed.HandleKey(ev)
		res = keyResult{
			editResult: editResult{
				SessionID: id,
				Changed:   out.Handled && out.Intent != editor.IntentCopy,
				Focus:     out.Focus,
				Selected:  ed.SelectedIDs(),
				CanUndo:   ed.CanUndo(),
				CanRedo:   ed.CanRedo(),
				Blocks:    ed.Document().BlockCount(),
			},
			Intent:    out.Intent.String(),
			Handled:   out.Handled,
			Clipboard: out.Clipboard,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Selected == nil {
		res.Selected = []string{}
	}
	if res.Intent == editor.IntentCopy.String() && res.Handled && s.clipboard != nil {
		if err := s.clipboard.WriteAll(res.Clipboard); err != nil {
			s.log.Warn().Err(err).Msg("clipboard write failed")
		}
	}
	return jsonResult(res)
}
