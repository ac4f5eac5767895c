package merge

import "time"

// Reporter receives human-facing progress events while a merge runs
type Reporter interface {
	NoSources(dir, ext string)
	SourcesFound(sources []Source)
	FileStarted(src Source)
	TableStarted(src Source, table, target string)
	TableCopied(src Source, res TableResult)
	FileFailed(src Source, err error)
	Completed(r *Report)
}

// TableResult describes one copied table
type TableResult struct {
	Table   string
	Target  string
	Columns int
	Rows    int
}

// FileResult describes the outcome of merging one source file. Tables
// lists the tables copied before Err, if any, stopped the file.
type FileResult struct {
	Source Source
	Tables []TableResult
	Err    error
}

// Report summarizes a merge run
type Report struct {
	RunID      string
	SourceDir  string
	OutputPath string
	OutputSize int64
	StartedAt  time.Time
	FinishedAt time.Time
	Files      []FileResult
}

// TableCount returns the number of tables copied across all files
func (r *Report) TableCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Tables)
	}
	return n
}

// RowCount returns the number of rows copied across all files
func (r *Report) RowCount() int {
	n := 0
	for _, f := range r.Files {
		for _, t := range f.Tables {
			n += t.Rows
		}
	}
	return n
}

// Failed returns the files that stopped with an error
func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Duration returns how long the run took
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type nopReporter struct{}

func (nopReporter) NoSources(string, string) {}
func (nopReporter) SourcesFound([]Source) {}
func (nopReporter) FileStarted(Source) {}
func (nopReporter) TableStarted(Source, string, string) {}
func (nopReporter) TableCopied(Source, TableResult) {}
func (nopReporter) FileFailed(Source, error) {}
func (nopReporter) Completed(*Report) {}
