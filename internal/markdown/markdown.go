// Package markdown projects summary documents into text for the clipboard
// and for export.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"summaryedit/internal/domain"
)

// Meta describes the meeting a summary belongs to. It only feeds the export
// preamble.
type Meta struct {
	ID    string
	Title string
	Date  time.Time
}

// Serialize renders every section in order: a "## title" heading followed by
// its blocks. Sections containing bullets get one extra blank line after
// their last block.
func Serialize(doc domain.Document) string {
	var sb strings.Builder
	writeSections(&sb, doc)
	return sb.String()
}

// Export renders the full export document: a meeting preamble followed by
// the serialized sections.
func Export(doc domain.Document, meta Meta) string {
	id := meta.ID
	if id == "" {
		id = "Unknown"
	}
	title := meta.Title
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = "Untitled Meeting"
	}
	date := meta.Date
	if date.IsZero() {
		date = time.Now()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# AI Generated Summary of Meeting: %s - %s\n\n", id, title)
	fmt.Fprintf(&sb, "## Date: %s\n\n", date.Format("1/2/2006"))
	writeSections(&sb, doc)
	return sb.String()
}

func writeSections(sb *strings.Builder, doc domain.Document) {
	for _, sec := range doc.Sections {
		title := sec.Title
		if title == "" {
			title = sec.Key
		}
		fmt.Fprintf(sb, "## %s\n\n", title)

		hasBullets := false
		for _, b := range sec.Blocks {
			switch b.Type {
			case domain.BlockTypeHeading1:
				fmt.Fprintf(sb, "### %s\n\n", b.Content)
			case domain.BlockTypeHeading2:
				fmt.Fprintf(sb, "#### %s\n\n", b.Content)
			case domain.BlockTypeBullet:
				fmt.Fprintf(sb, "- %s\n", b.Content)
				hasBullets = true
			default:
				fmt.Fprintf(sb, "%s\n\n", b.Content)
			}
		}
		if hasBullets {
			sb.WriteString("\n")
		}
	}
}

// FileName is the download name for an exported document.
func FileName(doc domain.Document) string {
	name := strings.TrimSpace(doc.Title)
	if name == "" {
		name = "ai-summary"
	}
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	return name + ".md"
}

// SelectionText joins the content of the given blocks with newlines, in
// flattened order. Unknown ids and empty blocks are skipped.
func SelectionText(doc domain.Document, blockIDs []string) string {
	want := make(map[string]struct{}, len(blockIDs))
	for _, id := range blockIDs {
		want[id] = struct{}{}
	}
	var parts []string
	for _, sec := range doc.Sections {
		for _, b := range sec.Blocks {
			if _, ok := want[b.ID]; ok && b.Content != "" {
				parts = append(parts, b.Content)
			}
		}
	}
	return strings.Join(parts, "\n")
}
