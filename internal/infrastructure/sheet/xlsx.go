package sheet

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"sheet-insights-api/internal/domain/datarow"
)

func parseWorkbook(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrUnreadable, name, err)
	}
	shown, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrUnreadable, name, err)
	}

	records := make([][]cell, len(rows))
	for r, cells := range rows {
		vals := make([]cell, len(cells))
		for c, raw := range cells {
			if raw == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
			}
			ct, err := f.GetCellType(name, ref)
			if err != nil {
				return nil, fmt.Errorf("%w: cell %s: %v", ErrUnreadable, ref, err)
			}
			vals[c] = cell{text: raw, val: typedCell(raw, ct)}
			if r < len(shown) && c < len(shown[r]) {
				vals[c].text = shown[r][c]
			}
		}
		records[r] = vals
	}

	return buildSheet(name, records), nil
}

// typedCell maps the stored cell value to a Value using the workbook's own
// cell type. Untyped cells are numbers when they parse as one.
func typedCell(raw string, ct excelize.CellType) datarow.Value {
	switch ct {
	case excelize.CellTypeBool:
		return datarow.Bool(raw == "1" || raw == "TRUE" || raw == "true")
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil && isFiniteFloat(f) {
			return datarow.Number(f)
		}
		return datarow.String(raw)
	default:
		return datarow.String(raw)
	}
}

func isFiniteFloat(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
