package formatter

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/tordrt/sqlitemerge/internal/merge"
)

// TextFormatter prints merge progress as plain console lines.
// It implements merge.Reporter.
type TextFormatter struct {
	writer io.Writer
	ok     *color.Color
	fail   *color.Color
	dim    *color.Color
}

// NewTextFormatter creates a new text formatter. Colour is disabled when
// noColor is set, and otherwise follows fatih/color's terminal detection.
func NewTextFormatter(w io.Writer, noColor bool) *TextFormatter {
	f := &TextFormatter{
		writer: w,
		ok:     color.New(color.FgGreen),
		fail:   color.New(color.FgRed, color.Bold),
		dim:    color.New(color.FgHiBlack),
	}
	if noColor {
		f.ok.DisableColor()
		f.fail.DisableColor()
		f.dim.DisableColor()
	}
	return f
}

// NoSources reports that the directory held no candidate files
func (f *TextFormatter) NoSources(dir, ext string) {
	_, _ = fmt.Fprintf(f.writer, "No %s files found in %s\n", ext, dir)
}

// SourcesFound reports how many files will be merged
func (f *TextFormatter) SourcesFound(sources []merge.Source) {
	_, _ = fmt.Fprintf(f.writer, "Found %d database files\n", len(sources))
}

// FileStarted reports the start of a source file
func (f *TextFormatter) FileStarted(src merge.Source) {
	_, _ = fmt.Fprintf(f.writer, "\nProcessing: %s\n", src.Name)
}

// TableStarted reports the table about to be copied
func (f *TextFormatter) TableStarted(_ merge.Source, table, target string) {
	_, _ = fmt.Fprintf(f.writer, "  - Copying table: %s -> %s\n", table, target)
}

// TableCopied reports the rows written for a table
func (f *TextFormatter) TableCopied(_ merge.Source, res merge.TableResult) {
	if res.Rows == 0 {
		_, _ = f.dim.Fprintln(f.writer, "    Table is empty, no data inserted")
		return
	}
	_, _ = fmt.Fprintf(f.writer, "    Inserted %d rows\n", res.Rows)
}

// FileFailed reports a source file that was skipped
func (f *TextFormatter) FileFailed(src merge.Source, err error) {
	_, _ = f.fail.Fprintf(f.writer, "Error processing %s: %v\n", src.Name, err)
}

// Completed prints the closing summary
func (f *TextFormatter) Completed(r *merge.Report) {
	_, _ = fmt.Fprintln(f.writer)
	_, _ = f.ok.Fprint(f.writer, "✓")
	_, _ = fmt.Fprintf(f.writer, " Merge completed! Output file: %s\n", r.OutputPath)
	_, _ = f.ok.Fprint(f.writer, "✓")
	_, _ = fmt.Fprintf(f.writer, " Database size: %s\n", humanize.IBytes(uint64(r.OutputSize)))

	if failed := r.Failed(); len(failed) > 0 {
		_, _ = f.fail.Fprint(f.writer, "✗")
		_, _ = fmt.Fprintf(f.writer, " %d of %d files skipped due to errors\n", len(failed), len(r.Files))
	}
}
