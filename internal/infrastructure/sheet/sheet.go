package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"sheet-insights-api/internal/domain/datarow"
)

// ErrUnreadable is returned for anything that is not a readable workbook or CSV.
var ErrUnreadable = errors.New("unreadable spreadsheet")

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte("\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1")
)

// Sheet is the first worksheet of an uploaded file, one Row per data row.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []datarow.Row
}

type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Parse reads the first sheet of data. The format is chosen by extension of
// name and falls back to sniffing the content.
func (p *Parser) Parse(name string, data []byte) (*Sheet, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnreadable)
	}

	var (
		sh  *Sheet
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		sh, err = parseWorkbook(data)
	case ".xls":
		sh, err = parseLegacyWorkbook(data)
	case ".csv", ".txt":
		sh, err = parseCSV(data)
	default:
		switch {
		case bytes.HasPrefix(data, zipMagic):
			sh, err = parseWorkbook(data)
		case bytes.HasPrefix(data, oleMagic):
			sh, err = parseLegacyWorkbook(data)
		case isText(data):
			sh, err = parseCSV(data)
		default:
			err = fmt.Errorf("%w: unsupported format %q", ErrUnreadable, filepath.Ext(name))
		}
	}
	if err != nil {
		return nil, err
	}

	return sh, nil
}

func isText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}

// cell is one field as read from the file. text keeps the source spelling,
// which header names use verbatim.
type cell struct {
	text string
	val  datarow.Value
}

// buildSheet turns raw records into rows keyed by header. The first non-blank
// record is the header; fully blank records are dropped.
func buildSheet(name string, records [][]cell) *Sheet {
	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	sh := &Sheet{Name: name, Columns: []string{}, Rows: []datarow.Row{}}

	start := -1
	for i, rec := range records {
		if !blankRecord(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return sh
	}

	raw := make([]string, width)
	for i, c := range records[start] {
		raw[i] = c.text
	}
	sh.Columns = headerNames(raw)

	for _, rec := range records[start+1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(datarow.Row, len(rec))
		for i, c := range rec {
			if c.val.IsMissing() {
				continue
			}
			row[sh.Columns[i]] = c.val
		}
		sh.Rows = append(sh.Rows, row)
	}

	return sh
}

func blankRecord(rec []cell) bool {
	for _, c := range rec {
		if !c.val.IsMissing() {
			return false
		}
	}
	return true
}

// headerNames names blank headers __EMPTY, __EMPTY_1, ... and suffixes
// repeated names with _1, _2, ...
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	used := make(map[string]struct{}, len(raw))
	next := make(map[string]int, len(raw))

	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		base := h
		if strings.TrimSpace(base) == "" {
			base = "__EMPTY"
		}

		name := base
		for {
			if _, taken := used[name]; !taken {
				break
			}
			next[base]++
			name = fmt.Sprintf("%s_%d", base, next[base])
		}
		used[name] = struct{}{}
		names[i] = name
	}

	return names
}
