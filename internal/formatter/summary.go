package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tordrt/sqlitemerge/internal/merge"
)

// SummaryFormatter renders one line per copied table as a console table
type SummaryFormatter struct {
	writer io.Writer
}

// NewSummaryFormatter creates a new summary formatter
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{writer: w}
}

// Format writes the summary table
func (f *SummaryFormatter) Format(r *merge.Report) error {
	if len(r.Files) == 0 {
		_, _ = fmt.Fprintln(f.writer, "(0 tables)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(f.writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Table", "Target", "Columns", "Rows"})

	for _, file := range r.Files {
		for _, tr := range file.Tables {
			t.AppendRow(table.Row{file.Source.Name, tr.Table, tr.Target, tr.Columns, tr.Rows})
		}
		if file.Err != nil {
			t.AppendRow(table.Row{file.Source.Name, "-", "failed", "-", "-"})
		}
	}
	t.AppendFooter(table.Row{"", "", "Total", "", r.RowCount()})

	t.Render()
	return nil
}
