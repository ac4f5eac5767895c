// Package merge consolidates SQLite database files into a single output
// database. Each source table is recreated in the output under the name
// <file prefix>_<table> and all of its rows are copied.
//
// A run is strictly sequential: one source file at a time, one table at a
// time, schema before rows. A failure inside a source file abandons the rest
// of that file and the run moves on to the next one. Every write goes
// through one output transaction that is committed when all files are done.
package merge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tordrt/sqlitemerge/internal/db"
)

// DefaultOutput is the output file name used when none is given
const DefaultOutput = "merged_database.db"

// Options configures a Merger. All fields are optional.
type Options struct {
	// Extension selects source files by suffix. Defaults to ".db".
	Extension string

	// Driver is the database/sql driver name, db.DriverCGO or db.DriverPure.
	Driver string

	// Logger receives structured diagnostics. Nil discards them.
	Logger *slog.Logger

	// Reporter receives progress events. Nil discards them.
	Reporter Reporter
}

// Merger copies the tables of every source database into one output database
type Merger struct {
	ext      string
	driver   string
	logger   *slog.Logger
	reporter Reporter
}

// New creates a Merger
func New(opts Options) *Merger {
	m := &Merger{
		ext:      opts.Extension,
		driver:   opts.Driver,
		logger:   opts.Logger,
		reporter: opts.Reporter,
	}
	if m.ext == "" {
		m.ext = DefaultExtension
	}
	if m.driver == "" {
		m.driver = db.DefaultDriver
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.reporter == nil {
		m.reporter = nopReporter{}
	}
	return m
}

// Run merges every source database in sourceDir into outputPath.
//
// Only failures on the output database are returned as errors. Problems with
// individual source files are recorded in the report and the run continues.
func (m *Merger) Run(ctx context.Context, sourceDir, outputPath string) (*Report, error) {
	if outputPath == "" {
		outputPath = DefaultOutput
	}

	report := &Report{
		RunID:      uuid.New().String(),
		SourceDir:  sourceDir,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
	}
	logger := m.logger.With(slog.String("run_id", report.RunID))

	out, err := db.NewSQLiteClient(ctx, m.driver, outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open output database %s: %w", outputPath, err)
	}
	logger.Debug("output database opened", slog.String("path", outputPath), slog.String("driver", m.driver))

	sources, err := Discover(sourceDir, m.ext, outputPath)
	if err != nil {
		logger.Warn("failed to read source directory", slog.String("dir", sourceDir), slog.Any("error", err))
	}

	if len(sources) == 0 {
		m.reporter.NoSources(sourceDir, m.ext)
		closeOutput(logger, out)
		report.FinishedAt = time.Now()
		return report, nil
	}

	m.reporter.SourcesFound(sources)
	logger.Info("merge started", slog.Int("sources", len(sources)), slog.String("output", outputPath))

	w, err := db.NewSQLiteWriter(ctx, out)
	if err != nil {
		closeOutput(logger, out)
		return nil, err
	}

	for _, src := range sources {
		m.reporter.FileStarted(src)

		res := m.mergeFile(ctx, logger, w, src)
		if res.Err != nil {
			m.reporter.FileFailed(src, res.Err)
			logger.Error("source skipped",
				slog.String("file", src.Name),
				slog.Int("tables_copied", len(res.Tables)),
				slog.Any("error", res.Err),
			)
		}
		report.Files = append(report.Files, res)
	}

	if err := w.Commit(); err != nil {
		closeOutput(logger, out)
		return report, err
	}
	closeOutput(logger, out)

	report.FinishedAt = time.Now()
	if info, err := os.Stat(outputPath); err == nil {
		report.OutputSize = info.Size()
	}

	logger.Info("merge completed",
		slog.Int("files", len(report.Files)),
		slog.Int("failed", len(report.Failed())),
		slog.Int("tables", report.TableCount()),
		slog.Int("rows", report.RowCount()),
		slog.Int64("bytes", report.OutputSize),
		slog.Duration("elapsed", report.Duration()),
	)
	m.reporter.Completed(report)

	return report, nil
}

// mergeFile copies every table of one source file. The source handle lives
// only for the duration of this call.
func (m *Merger) mergeFile(ctx context.Context, logger *slog.Logger, w *db.SQLiteWriter, src Source) FileResult {
	res := FileResult{Source: src}

	client, err := db.NewReadOnlySQLiteClient(ctx, m.driver, src.Path)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close source database", slog.String("file", src.Name), slog.Any("error", err))
		}
	}()

	e := db.NewSQLiteExtractor(client)

	tables, err := e.TableNames(ctx)
	if err != nil {
		res.Err = fmt.Errorf("failed to get table names: %w", err)
		return res
	}

	for _, table := range tables {
		if table == db.SequenceTable {
			continue
		}

		tr, err := m.copyTable(ctx, logger, w, e, src, table)
		if err != nil {
			res.Err = err
			return res
		}
		res.Tables = append(res.Tables, tr)
	}

	return res
}

func (m *Merger) copyTable(ctx context.Context, logger *slog.Logger, w *db.SQLiteWriter, e *db.SQLiteExtractor, src Source, table string) (TableResult, error) {
	target := src.Prefix + "_" + table
	m.reporter.TableStarted(src, table, target)

	desc, err := e.ExtractTable(ctx, table)
	if err != nil {
		return TableResult{}, fmt.Errorf("failed to extract table %s: %w", table, err)
	}

	if err := w.CreateTable(ctx, target, desc); err != nil {
		return TableResult{}, err
	}

	rows, err := e.ReadRows(ctx, desc)
	if err != nil {
		return TableResult{}, fmt.Errorf("failed to read rows from %s: %w", table, err)
	}

	n, err := w.InsertRows(ctx, target, rows)
	if err != nil {
		return TableResult{}, err
	}

	tr := TableResult{
		Table:   table,
		Target:  target,
		Columns: len(desc.Columns),
		Rows:    n,
	}
	m.reporter.TableCopied(src, tr)
	logger.Debug("table copied",
		slog.String("file", src.Name),
		slog.String("table", table),
		slog.String("target", target),
		slog.Int("rows", n),
	)

	return tr, nil
}

func closeOutput(logger *slog.Logger, out *db.SQLiteClient) {
	if err := out.Close(); err != nil {
		logger.Warn("failed to close output database", slog.Any("error", err))
	}
}
