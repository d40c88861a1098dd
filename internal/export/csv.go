package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/bizledger/report-exporter/internal/report/types"
)

type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) SupportedFormat() types.Format {
	return types.FormatCSV
}

func (r *CSVRenderer) FileExt() string {
	return "csv"
}

func (r *CSVRenderer) ContentType() string {
	return "text/csv"
}

func (r *CSVRenderer) Render(p *types.Payload) ([]byte, error) {
	var csvRows [][]string

	csvRows = append(csvRows, []string{p.Title})
	for _, line := range parameterLines(p.Parameters) {
		csvRows = append(csvRows, []string{line})
	}
	csvRows = append(csvRows, []string{""})

	header := make([]string, 0, len(p.Columns))
	for _, col := range p.Columns {
		header = append(header, col.Label)
	}
	csvRows = append(csvRows, header)

	for _, row := range p.Rows {
		record := make([]string, 0, len(p.Columns))
		for _, col := range p.Columns {
			record = append(record, row[col.Key])
		}
		csvRows = append(csvRows, record)
	}

	return convertRowsToCSV(csvRows)
}

func convertRowsToCSV(csvRows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range csvRows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

// parameterLines flattens the sanitized parameters into stable "key: value"
// lines for the file preamble.
func parameterLines(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, params[k]))
	}
	return lines
}
