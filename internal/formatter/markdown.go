package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tordrt/sqlitemerge/internal/merge"
)

// MarkdownFormatter formats a merge report as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the report in markdown format
func (f *MarkdownFormatter) Format(r *merge.Report) error {
	_, _ = fmt.Fprintln(f.writer, "# Merge Report")
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintf(f.writer, "- **Run:** %s\n", r.RunID)
	_, _ = fmt.Fprintf(f.writer, "- **Source directory:** %s\n", r.SourceDir)
	_, _ = fmt.Fprintf(f.writer, "- **Output:** %s (%s)\n", r.OutputPath, humanize.IBytes(uint64(r.OutputSize)))
	if !r.StartedAt.IsZero() {
		_, _ = fmt.Fprintf(f.writer, "- **Started:** %s\n", r.StartedAt.Format(time.RFC3339))
		_, _ = fmt.Fprintf(f.writer, "- **Duration:** %s\n", r.Duration().Round(time.Millisecond))
	}
	_, _ = fmt.Fprintf(f.writer, "- **Files:** %d (%d failed)\n", len(r.Files), len(r.Failed()))
	_, _ = fmt.Fprintf(f.writer, "- **Tables:** %d\n", r.TableCount())
	_, _ = fmt.Fprintf(f.writer, "- **Rows:** %s\n", humanize.Comma(int64(r.RowCount())))
	_, _ = fmt.Fprintln(f.writer)

	for _, file := range r.Files {
		f.formatFile(file)
	}
	return nil
}

func (f *MarkdownFormatter) formatFile(file merge.FileResult) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", file.Source.Name)

	if len(file.Tables) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Tables")
		_, _ = fmt.Fprintln(f.writer)
		for _, t := range file.Tables {
			_, _ = fmt.Fprintf(f.writer, "- %s → **%s**, %d columns, %s\n",
				t.Table,
				t.Target,
				t.Columns,
				rowsLabel(t.Rows))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if file.Err != nil {
		_, _ = fmt.Fprintln(f.writer, "### Error")
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintf(f.writer, "```\n%v\n```\n\n", file.Err)
	}
}

func rowsLabel(n int) string {
	switch n {
	case 0:
		return "empty"
	case 1:
		return "1 row"
	default:
		return humanize.Comma(int64(n)) + " rows"
	}
}
