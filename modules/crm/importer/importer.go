// Package importer turns messy brokerage spreadsheets into validated policy
// rows. The pipeline is deterministic: locate the header row by scoring,
// map columns by keyword, normalize cell values, then drop rows already
// known to the database.
package importer

import (
	"time"

	"github.com/renovaplan/renova/pkg/excel"
)

// Result is the outcome of the parsing stages, before dedup and persistence.
type Result struct {
	Header  HeaderLocation
	Mapping Mapping
	Rows    []ProcessedRow
}

// Process runs header location, column mapping and row normalization over
// the workbook. Rows failing required-field validation are silently skipped;
// an empty Rows slice with a nil error means the sheet held a header but no
// usable data.
func Process(sheets []excel.Sheet, now time.Time) (*Result, error) {
	loc, err := LocateHeader(sheets)
	if err != nil {
		return nil, err
	}

	sheet := sheets[loc.SheetIndex]
	dataRows := sheet.Rows[loc.RowIndex+1:]

	mapping, err := MapColumns(sheet.Rows[loc.RowIndex], dataRows)
	if err != nil {
		return nil, err
	}

	rows := make([]ProcessedRow, 0, len(dataRows))
	for _, raw := range dataRows {
		row, ok := NormalizeRow(raw, mapping, now)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	return &Result{Header: loc, Mapping: mapping, Rows: rows}, nil
}
