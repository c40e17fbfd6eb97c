package excel

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet flattened into raw cell strings. Cells are read with
// RawCellValue so date cells keep their underlying serial representation.
type Sheet struct {
	Name string
	Rows [][]string
}

// RowCount reports the number of rows, MaxColumns the widest row.
func (s Sheet) RowCount() int { return len(s.Rows) }

func (s Sheet) MaxColumns() int {
	maxCols := 0
	for _, row := range s.Rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	return maxCols
}

// LoadWorkbook decodes an uploaded .xlsx/.xlsm/.xls payload into per-sheet
// cell grids. The whole workbook is materialized in memory.
func LoadWorkbook(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %q", name)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}

	return sheets, nil
}
