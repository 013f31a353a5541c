package sheet

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// formulaCell is what the BIFF reader yields for numeric formula cells; their
// cached results are not decoded, so they count as empty.
const formulaCell = "FormulaCol"

// parseLegacyWorkbook reads the first sheet of an Excel 97-2003 workbook.
// Cells arrive as display text and are typed the same way CSV fields are.
func parseLegacyWorkbook(data []byte) (sh *Sheet, err error) {
	// the reader panics on truncated or malformed streams
	defer func() {
		if r := recover(); r != nil {
			sh, err = nil, fmt.Errorf("%w: broken xls: %v", ErrUnreadable, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: open xls: %v", ErrUnreadable, err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}

	records := make([][]cell, 0, int(ws.MaxRow)+1)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := ws.Row(r)
		if row == nil || row.LastCol() <= 0 {
			records = append(records, nil)
			continue
		}
		vals := make([]cell, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			text := row.Col(c)
			if text == formulaCell {
				continue
			}
			vals[c] = cell{text: text, val: inferCell(text)}
		}
		records = append(records, vals)
	}

	return buildSheet(ws.Name, records), nil
}
