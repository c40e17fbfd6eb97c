package excel

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Exporter writes a single-sheet workbook with a bold header row.
type Exporter struct {
	sheetName string
}

func NewExporter(sheetName string) *Exporter {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	// Excel sheet name limit
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	return &Exporter{sheetName: sheetName}
}

func (e *Exporter) Export(headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(e.sheetName)
	if err != nil {
		return nil, errors.Wrap(err, "create sheet")
	}
	f.SetActiveSheet(index)
	if e.sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(e.sheetName, "A1", &headerCells); err != nil {
		return nil, errors.Wrap(err, "write header row")
	}

	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(headers) > 0 {
		endCell, cellErr := excelize.CoordinatesToCellName(len(headers), 1)
		if cellErr == nil {
			_ = f.SetCellStyle(e.sheetName, "A1", endCell, styleID)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.Wrap(err, "row coordinates")
		}
		if err := f.SetSheetRow(e.sheetName, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "serialize workbook")
	}
	return buf.Bytes(), nil
}
