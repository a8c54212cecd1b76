package report

import (
	"fmt"
	"strings"
)

// Markdown renders the document as GitHub-flavored markdown.
func (d Document) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "Date: %s\n", d.Date.Format("2006-01-02"))
	if d.Project != "" {
		fmt.Fprintf(&b, "Project: %s\n", d.Project)
	}
	if d.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", d.Author)
	}

	for _, s := range d.Sections {
		fmt.Fprintf(&b, "\n## %s\n", s.Heading)
		for _, blk := range s.Blocks {
			b.WriteString("\n")
			writeBlock(&b, blk)
		}
	}

	if d.Notes != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", d.Notes)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, blk Block) {
	switch blk.Kind {
	case Paragraph:
		fmt.Fprintf(b, "%s\n", blk.Text)
	case Formula:
		fmt.Fprintf(b, "`%s`\n", blk.Text)
	case Params:
		for _, p := range blk.Params {
			fmt.Fprintf(b, "* **%s:** %s\n", p.Name, p.Value)
		}
	case TableBlock:
		t := blk.Table
		fmt.Fprintf(b, "| %s |\n", strings.Join(t.Header, " | "))
		seps := make([]string, len(t.Header))
		for i := range seps {
			seps[i] = "---"
			if i > 0 {
				seps[i] = "---:"
			}
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(seps, " | "))
		for _, row := range t.Rows {
			fmt.Fprintf(b, "| %s |\n", strings.Join(row, " | "))
		}
	}
}
