package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Column describes one column of an exported metric table. Numeric columns
// are right-aligned in layouts that support alignment.
type Column struct {
	Key     string
	Label   string
	Numeric bool
}

// Table is a metric result shaped for download: ordered columns plus
// stringified cells keyed by column key.
type Table struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// CSVExporter renders metric tables as UTF-8 CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes the column labels as the header record followed by one record
// per metric row, cells in column order. Missing cells render empty.
func (e *CSVExporter) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("export table has no columns")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Label
	}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = row[col.Key]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
