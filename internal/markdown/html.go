package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"summaryedit/internal/domain"
)

// RenderHTML converts serialized markdown into an HTML fragment for hosts that
// export rich text instead of markdown.
func RenderHTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// HTMLFileName is FileName with an .html extension.
func HTMLFileName(doc domain.Document) string {
	return strings.TrimSuffix(FileName(doc), ".md") + ".html"
}
