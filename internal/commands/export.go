package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"summaryedit/internal/app"
	"summaryedit/internal/domain"
	"summaryedit/internal/editor"
	"summaryedit/internal/markdown"
)

type exportOptions struct {
	format    string
	out       string
	meetingID string
	date      string
}

func addExport(topLevel *cobra.Command) {
	o := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <payload.json>",
		Short: "export a summary payload as markdown or HTML",
		Example: `
summaryedit export weekly.json
summaryedit export weekly.json --format html --out ./exports
summaryedit export weekly.json --out - --meeting-id 42 --date 2024-03-09
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readPayload(args[0])
			if err != nil {
				return err
			}
			name, body, err := o.render(doc)
			if err != nil {
				return err
			}
			if o.out == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			path := filepath.Join(o.out, name)
			if err := os.WriteFile(path, body, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&o.format, "format", "md", "output format: md or html")
	cmd.Flags().StringVarP(&o.out, "out", "o", ".", "output directory, or - for stdout")
	cmd.Flags().StringVar(&o.meetingID, "meeting-id", "", "meeting id for the preamble")
	cmd.Flags().StringVar(&o.date, "date", "", "meeting date as YYYY-MM-DD (default today)")
	topLevel.AddCommand(cmd)
}

func (o *exportOptions) render(doc domain.Document) (string, []byte, error) {
	md, err := exportMarkdown(doc, o.meetingID, o.date)
	if err != nil {
		return "", nil, err
	}

	switch o.format {
	case "md", "markdown":
		return markdown.FileName(doc), []byte(md), nil
	case "html":
		html, err := markdown.RenderHTML(md)
		if err != nil {
			return "", nil, err
		}
		return markdown.HTMLFileName(doc), html, nil
	}
	return "", nil, fmt.Errorf("unknown format %q", o.format)
}

// writeClipboard is the clipboard sink used by copy.
var writeClipboard = app.CopyToClipboard

type copyOptions struct {
	text      bool
	meetingID string
	date      string
}

func addCopy(topLevel *cobra.Command) {
	o := &copyOptions{}

	cmd := &cobra.Command{
		Use:   "copy <payload.json>",
		Short: "copy a summary payload to the clipboard as markdown",
		Example: `
summaryedit copy weekly.json --meeting-id 42
summaryedit copy weekly.json --text
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readPayload(args[0])
			if err != nil {
				return err
			}
			var text string
			if o.text {
				ids := lo.Map(domain.Flatten(doc), func(r domain.BlockRef, _ int) string { return r.BlockID })
				text = markdown.SelectionText(doc, ids)
			} else {
				if text, err = exportMarkdown(doc, o.meetingID, o.date); err != nil {
					return err
				}
			}
			if err := writeClipboard(text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d characters\n", len([]rune(text)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&o.text, "text", false, "copy the plain text of every block instead of markdown")
	cmd.Flags().StringVar(&o.meetingID, "meeting-id", "", "meeting id for the preamble")
	cmd.Flags().StringVar(&o.date, "date", "", "meeting date as YYYY-MM-DD (default today)")
	topLevel.AddCommand(cmd)
}

// exportMarkdown renders doc with the meeting preamble. An empty date means
// today.
func exportMarkdown(doc domain.Document, meetingID, date string) (string, error) {
	d := time.Now()
	if date != "" {
		var err error
		if d, err = time.Parse(time.DateOnly, date); err != nil {
			return "", fmt.Errorf("parse date: %w", err)
		}
	}
	return markdown.Export(doc, markdown.Meta{ID: meetingID, Title: doc.Title, Date: d}), nil
}

// readPayload loads and normalizes a summary payload file.
func readPayload(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read payload: %w", err)
	}
	raw, err := domain.ParsePayload(data)
	if err != nil {
		return domain.Document{}, err
	}
	return editor.NewMutator(nil).Normalize(raw), nil
}
