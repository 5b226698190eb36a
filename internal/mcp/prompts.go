package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/domain"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("tidy_summary",
		mcp.WithPromptDescription("Guide through cleaning up an AI meeting summary: merge fragments, fix headings, drop noise"),
		mcp.WithArgument("sessionId",
			mcp.ArgumentDescription("Session to tidy (defaults to the active session)"),
		),
	), s.handleTidyPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("extract_action_items",
		mcp.WithPromptDescription("Move every task-like line of a summary into the Action Items section"),
		mcp.WithArgument("sessionId",
			mcp.ArgumentDescription("Session to edit (defaults to the active session)"),
		),
	), s.handleActionItemsPrompt)
}

func (s *Server) promptDocument(args map[string]string) (string, domain.Document, error) {
	toolArgs := map[string]any{}
	if id := args["sessionId"]; id != "" {
		toolArgs["sessionId"] = id
	}
	id, err := s.resolveSessionID(toolArgs)
	if err != nil {
		return "", domain.Document{}, err
	}
	view, err := s.sessions.Get(id)
	if err != nil {
		return "", domain.Document{}, err
	}
	return id, view.Document, nil
}

func (s *Server) handleTidyPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id, doc, err := s.promptDocument(req.Params.Arguments)
	if err != nil {
		return nil, err
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Tidy summary %s", id),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Tidy the meeting summary in session %s. Current blocks:

%s
Follow these steps:

1. Merge sentence fragments into the previous block with merge_block
2. Use change_block_type to turn topic lines into heading2 blocks
3. Delete filler lines ("ok", "thanks") with delete_blocks
4. Gray out side remarks with change_block_color
5. Finish with save_session

Every tool result reports canUndo; use undo if an edit went wrong.`, id, outline(doc)),
				},
			},
		},
	}, nil
}

func (s *Server) handleActionItemsPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id, doc, err := s.promptDocument(req.Params.Arguments)
	if err != nil {
		return nil, err
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Extract action items from %s", id),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Find every task, owner or deadline in session %s and make sure it is a bullet in the "ActionItems" section. Current blocks:

%s
If no ActionItems section exists, use add_section and rename_section to create one. Use split_block after the last action item to append new bullets, change_block_content to fill them, and delete_blocks to remove the originals.`, id, outline(doc)),
				},
			},
		},
	}, nil
}

// outline lists every section and block as "[key] id: content" lines.
func outline(doc domain.Document) string {
	var sb strings.Builder
	for _, sec := range doc.Sections {
		fmt.Fprintf(&sb, "## %s (key %s)\n", sec.Title, sec.Key)
		for _, b := range sec.Blocks {
			fmt.Fprintf(&sb, "- %s [%s]\n", describeBlock(b.ID, b.Content), b.Type)
		}
	}
	return sb.String()
}

// describeBlock is a short label for a block: its id and truncated content.
func describeBlock(id, content string) string {
	if r := []rune(content); len(r) > 60 {
		content = string(r[:60]) + "…"
	}
	return fmt.Sprintf("%s: %q", id, content)
}
