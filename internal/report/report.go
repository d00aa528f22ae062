// Package report flattens checklist records into rows and writes them as a spreadsheet
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/internal/metrics"
	"github.com/yegors/airport-readiness/internal/query"
	"github.com/yegors/airport-readiness/internal/schema"
	"github.com/yegors/airport-readiness/pkg/logger"
)

const (
	// AirportColumn is the first column of every report
	AirportColumn = "AIRPORT"
	// ContentType is the MIME type of the written workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Sheet1"
	yes       = "YES"
	no        = "NO"
)

// Filename returns the artifact name for a report created at t
func Filename(t time.Time) string {
	return "Airport_Check_Report_" + t.Format("20060102_1504") + ".xlsx"
}

// Report is a flattened table: a header and one row per airport
type Report struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the value of column in row i, or "" if there is no such column
func (r *Report) Cell(i int, column string) string {
	for j, c := range r.Columns {
		if c == column {
			return r.Rows[i][j]
		}
	}
	return ""
}

// WriteXLSX serializes the report as a single-sheet workbook
func (r *Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if len(r.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(r.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, row := range r.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Loader is the subset of the record store the generator needs
type Loader interface {
	Load(ctx context.Context) (map[string]checklist.Record, error)
}

// Config controls report generation
type Config struct {
	// RespectFieldFilter limits columns to the selection's fields instead of every schema field
	RespectFieldFilter bool
	// ExportDir is where artifacts are written
	ExportDir string
}

// Generator builds reports from the record store
type Generator struct {
	store   Loader
	config  Config
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewGenerator creates a new report generator. m may be nil.
func NewGenerator(store Loader, config Config, m *metrics.Metrics, log *logger.Logger) *Generator {
	return &Generator{
		store:   store,
		config:  config,
		metrics: m,
		logger:  log.Named("report"),
	}
}

// Build flattens the selected airports into rows. Every selected code present in
// the store yields a row; checklist fields read "YES" when ticked, else "NO".
func (g *Generator) Build(ctx context.Context, sel query.Selection) (*Report, error) {
	records, err := g.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load airport records: %w", err)
	}

	fields := schema.AllFields()
	if g.config.RespectFieldFilter && len(sel.Fields) > 0 {
		fields = sel.Fields
	}

	report := &Report{Columns: append([]string{AirportColumn}, fields...)}
	for _, code := range sel.Codes {
		record, ok := records[code]
		if !ok || code == "" {
			continue
		}

		row := make([]string, 0, len(report.Columns))
		row = append(row, code)
		for _, f := range fields {
			row = append(row, cell(record, f))
		}
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

func cell(record checklist.Record, field string) string {
	v := record.Lookup(field)
	if schema.IsScalarField(field) {
		if s, ok := v.Text(); ok {
			return s
		}
		return v.String()
	}
	if v.Ticked() {
		return yes
	}
	return no
}

// Export builds the report and writes it into the export directory.
// It returns the artifact path.
func (g *Generator) Export(ctx context.Context, sel query.Selection, now time.Time) (string, error) {
	path, rows, err := g.export(ctx, sel, now)
	g.metrics.RecordExport(err)
	if err != nil {
		g.logger.Error("Report export failed", logger.Error(err))
		return "", err
	}

	g.logger.Info("Report exported",
		logger.String("path", path),
		logger.Int("rows", rows),
	)
	return path, nil
}

func (g *Generator) export(ctx context.Context, sel query.Selection, now time.Time) (string, int, error) {
	report, err := g.Build(ctx, sel)
	if err != nil {
		return "", 0, err
	}

	dir := g.config.ExportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	file, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create report file: %w", err)
	}

	if err := report.WriteXLSX(file); err != nil {
		file.Close()
		return "", 0, err
	}
	if err := file.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close report file: %w", err)
	}

	return path, len(report.Rows), nil
}
