package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/painelescolar/bi-api/internal/models"
	"github.com/painelescolar/bi-api/pkg/export"
	appErrors "github.com/painelescolar/bi-api/pkg/errors"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var exportColumns = []export.Column{
	{Key: "unidade", Label: "Unidade"},
	{Key: "segmento", Label: "Segmento"},
	{Key: "turma", Label: "Turma"},
	{Key: "disciplina", Label: "Disciplina"},
	{Key: "ano", Label: "Ano", Numeric: true},
	{Key: "valor", Label: "Valor", Numeric: true},
}

// MetricQuerier is the metric lookup surface the exporter builds on.
type MetricQuerier interface {
	Query(ctx context.Context, filter models.MetricFilter) ([]models.MetricRow, bool, error)
}

// ExportService renders metric results as downloadable CSV or PDF tables.
type ExportService struct {
	metrics MetricQuerier
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService(metrics MetricQuerier) *ExportService {
	return &ExportService{
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// ExportResult carries the rendered document and its content type.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Render runs the metric and renders it in the requested format.
func (s *ExportService) Render(ctx context.Context, filter models.MetricFilter, format string) (*ExportResult, error) {
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	rows, _, err := s.metrics.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   filter.Metric,
		Columns: exportColumns,
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, map[string]string{
			"unidade":    row.UnitLabel,
			"segmento":   row.SegmentLabel,
			"turma":      row.ClassLabel,
			"disciplina": row.SubjectLabel,
			"ano":        strconv.Itoa(row.Year),
			"valor":      strconv.FormatFloat(row.Value, 'f', 2, 64),
		})
	}

	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: filter.Metric + ".pdf"}, nil
	default:
		content, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: filter.Metric + ".csv"}, nil
	}
}
