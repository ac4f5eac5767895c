// Package sqlitemerge consolidates many SQLite database files into a single
// output database.
//
// Every table of every source file is recreated in the output under a name
// prefixed with the source file's stem, so tables with the same name in
// different files do not collide. Hyphens and spaces in the stem become
// underscores: table "orders" in "sales data-2024.db" is copied to
// "sales_data_2024_orders".
//
// # Quick Start
//
//	report, err := sqlitemerge.Merge(ctx, "exports", "merged_database.db", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("copied %d tables\n", report.TableCount())
//
// # Failure Handling
//
// A source file that cannot be read, or whose tables cannot be copied, is
// reported and skipped; tables copied from it before the failure stay in the
// output. Merge only returns an error when the output database itself cannot
// be opened or committed.
//
// # Re-running
//
// Tables are created with CREATE TABLE IF NOT EXISTS and rows are always
// appended. Merging into an existing output therefore appends the rows a
// second time. Tables with a primary key reject the duplicates, and the
// source file they came from is reported as failed.
package sqlitemerge

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/tordrt/sqlitemerge/internal/formatter"
	"github.com/tordrt/sqlitemerge/internal/merge"
)

// DefaultOutput is the output path used when none is given
const DefaultOutput = merge.DefaultOutput

// Options configures a merge.
//
// All fields are optional. If not specified:
//   - Extension: ".db"
//   - Driver: "sqlite3" (github.com/mattn/go-sqlite3); "sqlite" selects
//     modernc.org/sqlite
//   - Progress: os.Stdout
//   - Logger: diagnostics are discarded
type Options struct {
	// Extension selects source files in the directory by suffix.
	Extension string

	// Driver is the database/sql driver used for every database.
	Driver string

	// Progress receives human readable progress lines.
	// Use io.Discard to silence them.
	Progress io.Writer

	// NoColor disables coloured progress output.
	NoColor bool

	// Logger receives structured diagnostics.
	Logger *slog.Logger
}

// Merge copies every table of every source database in sourceDir into the
// database at outputPath, creating it if needed.
//
// Parameters:
//   - ctx: Context passed to every database call
//   - sourceDir: Directory searched (non-recursively) for source files
//   - outputPath: Output database path; DefaultOutput when empty. If it lies
//     inside sourceDir it is not treated as a source.
//   - opts: Merge options (can be nil for defaults)
//
// The returned report lists every source file with the tables it contributed
// and, for skipped files, the error that stopped them.
func Merge(ctx context.Context, sourceDir, outputPath string, opts *Options) (*merge.Report, error) {
	if opts == nil {
		opts = &Options{}
	}

	progress := opts.Progress
	if progress == nil {
		progress = os.Stdout
	}

	m := merge.New(merge.Options{
		Extension: opts.Extension,
		Driver:    opts.Driver,
		Logger:    opts.Logger,
		Reporter:  formatter.NewTextFormatter(progress, opts.NoColor),
	})
	return m.Run(ctx, sourceDir, outputPath)
}

// WriteReport writes a markdown summary of a merge report to w.
//
// Example:
//
//	report, err := sqlitemerge.Merge(ctx, "exports", "", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	f, _ := os.Create("merge-report.md")
//	defer f.Close()
//	_ = sqlitemerge.WriteReport(report, f)
func WriteReport(r *merge.Report, w io.Writer) error {
	return formatter.NewMarkdownFormatter(w).Format(r)
}
