package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"summaryedit/internal/markdown"
)

const (
	sessionsURI      = "summary://sessions"
	sessionURIPrefix = "summary://session/"
)

func (s *Server) registerResources() {
	// ── summary://sessions ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		sessionsURI,
		"All Sessions",
		mcp.WithMIMEType("application/json"),
	), s.handleSessionsResource)

	// ── summary://session/{sessionId}/document ─────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			sessionURIPrefix+"{sessionId}/document",
			"Summary Document",
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleDocumentResource,
	)

	// ── summary://session/{sessionId}/markdown ─────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			sessionURIPrefix+"{sessionId}/markdown",
			"Summary as Markdown",
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleMarkdownResource,
	)
}

func (s *Server) handleSessionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(list, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      sessionsURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := sessionIDFromURI(uri)
	if id == "" {
		return nil, fmt.Errorf("could not extract sessionId from URI: %s", uri)
	}
	view, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(view.Document, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleMarkdownResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := sessionIDFromURI(uri)
	if id == "" {
		return nil, fmt.Errorf("could not extract sessionId from URI: %s", uri)
	}
	view, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     markdown.Serialize(view.Document),
		},
	}, nil
}

// sessionIDFromURI extracts the session ID from "summary://session/{id}/...".
func sessionIDFromURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, sessionURIPrefix)
	if !ok {
		return ""
	}
	id, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return id
}
