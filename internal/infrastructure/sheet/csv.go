package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sheet-insights-api/internal/domain/datarow"
)

var utf8BOM = []byte("\xef\xbb\xbf")

func parseCSV(data []byte) (*Sheet, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !isText(data) {
		return nil, fmt.Errorf("%w: not a text file", ErrUnreadable)
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	var records [][]cell
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}

		vals := make([]cell, len(rec))
		for i, field := range rec {
			vals[i] = cell{text: field, val: inferCell(field)}
		}
		records = append(records, vals)
	}

	return buildSheet("Sheet1", records), nil
}

// inferCell types a CSV field: numbers and TRUE/FALSE become typed cells,
// everything else stays text.
func inferCell(s string) datarow.Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return datarow.Null()
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && isFiniteFloat(f) && !isWordNumber(t) {
		return datarow.Number(f)
	}
	switch strings.ToUpper(t) {
	case "TRUE":
		return datarow.Bool(true)
	case "FALSE":
		return datarow.Bool(false)
	}

	return datarow.String(s)
}

// isWordNumber rejects forms ParseFloat accepts that a spreadsheet would keep
// as text, like "Inf", "NaN" or hex floats.
func isWordNumber(s string) bool {
	for _, c := range strings.TrimLeft(s, "+-") {
		switch {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return true
		}
	}
	return false
}
