package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tordrt/sqlitemerge/internal/merge"
)

func sampleReport() *merge.Report {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return &merge.Report{
		RunID:      "run-1",
		SourceDir:  "data",
		OutputPath: "merged_database.db",
		OutputSize: 12288,
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Files: []merge.FileResult{
			{
				Source: merge.Source{Name: "sales data-2024.db", Prefix: "sales_data_2024"},
				Tables: []merge.TableResult{
					{Table: "orders", Target: "sales_data_2024_orders", Columns: 3, Rows: 1200},
					{Table: "notes", Target: "sales_data_2024_notes", Columns: 1, Rows: 0},
				},
			},
			{
				Source: merge.Source{Name: "broken.db", Prefix: "broken"},
				Err:    errors.New("file is not a database"),
			},
		},
	}
}

func TestTextFormatterProgress(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(&buf, true)

	src := merge.Source{Name: "sales data-2024.db", Prefix: "sales_data_2024"}
	f.SourcesFound([]merge.Source{src, {Name: "broken.db"}})
	f.FileStarted(src)
	f.TableStarted(src, "orders", "sales_data_2024_orders")
	f.TableCopied(src, merge.TableResult{Table: "orders", Target: "sales_data_2024_orders", Rows: 3})
	f.TableStarted(src, "notes", "sales_data_2024_notes")
	f.TableCopied(src, merge.TableResult{Table: "notes", Target: "sales_data_2024_notes"})
	f.FileFailed(merge.Source{Name: "broken.db"}, errors.New("file is not a database"))
	f.Completed(sampleReport())

	want := []string{
		"Found 2 database files",
		"",
		"Processing: sales data-2024.db",
		"  - Copying table: orders -> sales_data_2024_orders",
		"    Inserted 3 rows",
		"  - Copying table: notes -> sales_data_2024_notes",
		"    Table is empty, no data inserted",
		"Error processing broken.db: file is not a database",
		"",
		"✓ Merge completed! Output file: merged_database.db",
		"✓ Database size: 12 KiB",
		"✗ 1 of 2 files skipped due to errors",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	if len(got) != len(want) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(want), len(got), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTextFormatterNoSources(t *testing.T) {
	var buf bytes.Buffer
	NewTextFormatter(&buf, true).NoSources("/tmp/in", ".db")

	if got := buf.String(); got != "No .db files found in /tmp/in\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf).Format(sampleReport()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"# Merge Report",
		"- **Output:** merged_database.db (12 KiB)",
		"- **Duration:** 1.5s",
		"- **Files:** 2 (1 failed)",
		"- **Tables:** 2",
		"- **Rows:** 1,200",
		"## sales data-2024.db",
		"- orders → **sales_data_2024_orders**, 3 columns, 1,200 rows",
		"- notes → **sales_data_2024_notes**, 1 columns, empty",
		"## broken.db",
		"file is not a database",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q\n%s", want, output)
		}
	}

	if strings.Contains(output, "## broken.db\n\n### Tables") {
		t.Error("Failed file without tables should not list a tables section")
	}
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewSummaryFormatter(&buf).Format(sampleReport()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"SOURCE", "TARGET", "sales_data_2024_orders", "sales_data_2024_notes", "failed", "1200"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected summary to contain %q\n%s", want, output)
		}
	}
}

func TestSummaryFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewSummaryFormatter(&buf).Format(&merge.Report{}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if buf.String() != "(0 tables)\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
