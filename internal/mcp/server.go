package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"summaryedit/internal/editor"
	"summaryedit/internal/service"
)

// Clipboard receives text copied out of a session.
type Clipboard interface {
	WriteAll(text string) error
}

// Server is the MCP server for the summary editor.
// It exposes tools, resources, and prompts so AI agents can edit open summaries.
type Server struct {
	mcp       *server.MCPServer
	sessions  *service.SessionService
	clipboard Clipboard
	log       zerolog.Logger

	// Active session context (set by open_summary / set_active_session)
	mu              sync.Mutex
	activeSessionID string
}

// Deps holds all dependencies passed from the app layer to the MCP server.
type Deps struct {
	Sessions  *service.SessionService
	Clipboard Clipboard // optional; copy_selection only returns the text without it
	Log       zerolog.Logger
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		sessions:  deps.Sessions,
		clipboard: deps.Clipboard,
		log:       deps.Log,
	}

	s.mcp = server.NewMCPServer(
		"summaryedit-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerSessionTools()
	s.registerBlockTools()
	s.registerSectionTools()
	s.registerNavigationTools()
	s.registerHistoryTools()
	s.registerMarkdownTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCPServer exposes the underlying server, e.g. for alternative transports.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info().Msg("starting MCP stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) setActive(id string) {
	s.mu.Lock()
	s.activeSessionID = id
	s.mu.Unlock()
}

// resolveSessionID returns the sessionId from tool args or falls back to the active session.
func (s *Server) resolveSessionID(args map[string]any) (string, error) {
	if sid, ok := args["sessionId"].(string); ok && sid != "" {
		return sid, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeSessionID != "" {
		return s.activeSessionID, nil
	}
	return "", fmt.Errorf("no sessionId provided and no active session (use open_summary or set_active_session first)")
}

// editResult reports the state of a session after a mutating tool call.
type editResult struct {
	SessionID string        `json:"sessionId"`
	Changed   bool          `json:"changed"`
	Focus     *editor.Focus `json:"focus,omitempty"`
	Selected  []string      `json:"selected"`
	CanUndo   bool          `json:"canUndo"`
	CanRedo   bool          `json:"canRedo"`
	Blocks    int           `json:"blocks"`
}

// edit runs fn against the resolved session and reports the outcome. A
// stale target is not an error: it is reported as changed=false.
func (s *Server) edit(ctx context.Context, req mcp.CallToolRequest, fn func(*editor.Session) (bool, *editor.Focus)) (*mcp.CallToolResult, error) {
	id, err := s.resolveSessionID(req.GetArguments())
	if err != nil {
		return nil, err
	}

	var res editResult
	err = s.sessions.Do(ctx, id, func(ed *editor.Session) error {
		changed, focus := fn(ed)
		res = editResult{
			SessionID: id,
			Changed:   changed,
			Focus:     focus,
			Selected:  ed.SelectedIDs(),
			CanUndo:   ed.CanUndo(),
			CanRedo:   ed.CanRedo(),
			Blocks:    ed.Document().BlockCount(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Selected == nil {
		res.Selected = []string{}
	}
	return jsonResult(res)
}
