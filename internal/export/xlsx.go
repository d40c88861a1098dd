package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bizledger/report-exporter/internal/report/types"
)

const xlsxSheet = "Report"

type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) SupportedFormat() types.Format {
	return types.FormatXLSX
}

func (r *XLSXRenderer) FileExt() string {
	return "xlsx"
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Render(p *types.Payload) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	rowNum := 1
	if err := f.SetCellValue(xlsxSheet, cell(1, rowNum), p.Title); err != nil {
		return nil, err
	}
	rowNum++
	for _, line := range parameterLines(p.Parameters) {
		if err := f.SetCellValue(xlsxSheet, cell(1, rowNum), line); err != nil {
			return nil, err
		}
		rowNum++
	}
	rowNum++

	for i, col := range p.Columns {
		if err := f.SetCellValue(xlsxSheet, cell(i+1, rowNum), col.Label); err != nil {
			return nil, err
		}
	}
	rowNum++

	for _, row := range p.Rows {
		for i, col := range p.Columns {
			if err := f.SetCellValue(xlsxSheet, cell(i+1, rowNum), row[col.Key]); err != nil {
				return nil, err
			}
		}
		rowNum++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
