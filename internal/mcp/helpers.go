package mcpserver

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/domain"
	"summaryedit/internal/editor"
)

func boolPtr(b bool) *bool { return &b }

// requireString returns a non-empty string argument.
func requireString(req mcp.CallToolRequest, key string) (string, error) {
	v := strings.TrimSpace(req.GetString(key, ""))
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func parseBlockType(v string) (domain.BlockType, error) {
	t := domain.BlockType(strings.ToLower(strings.TrimSpace(v)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown block type %q (want text, bullet, heading1 or heading2)", v)
	}
	return t, nil
}

func parseColor(v string) (domain.Color, error) {
	c := domain.Color(strings.ToLower(strings.TrimSpace(v)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown color %q (want default or gray)", v)
	}
	return c, nil
}

func parseDirection(v string) (editor.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "up":
		return editor.Up, nil
	case "down":
		return editor.Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want up or down)", v)
}
