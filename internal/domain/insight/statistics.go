package insight

import (
	"sort"
	"strconv"

	"sheet-insights-api/internal/domain/datarow"
)

type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnCategorical ColumnType = "categorical"

	maxTopValues = 5
)

type (
	// ColumnStats holds either the numeric or the categorical summary of a column.
	ColumnStats struct {
		Type    ColumnType `json:"type"`
		Count   int        `json:"count"`
		Average string     `json:"average,omitempty"`
		Min     *float64   `json:"min,omitempty"`
		Max     *float64   `json:"max,omitempty"`
		Range   string     `json:"range,omitempty"`

		UniqueValues *int            `json:"uniqueValues,omitempty"`
		TopValues    []datarow.Value `json:"topValues,omitempty"`
	}
	Statistics map[string]ColumnStats

	ColumnQuality struct {
		Completeness  string `json:"completeness"`
		MissingValues int    `json:"missingValues"`
		TotalValues   int    `json:"totalValues"`
	}
	DataQuality map[string]ColumnQuality
)

// Columns returns every key used in rows. Keys from header come first in
// header order, the rest follow sorted.
func Columns(rows []datarow.Row, header []string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for _, h := range header {
		if _, ok := seen[h]; ok {
			cols = append(cols, h)
			delete(seen, h)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	return append(cols, rest...)
}

// ComputeStatistics summarises each column over the sampled rows. Columns
// without a single present value are left out.
func ComputeStatistics(rows []datarow.Row, columns []string, mode NumericMode) Statistics {
	stats := make(Statistics, len(columns))

	for _, col := range columns {
		values := make([]datarow.Value, 0, len(rows))
		for _, r := range rows {
			v, ok := r[col]
			if !ok || v.IsMissing() {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}

		numbers := make([]float64, 0, len(values))
		for _, v := range values {
			if f, ok := mode.AsNumber(v); ok {
				numbers = append(numbers, f)
			}
		}

		if len(numbers) > 0 {
			stats[col] = numericStats(numbers)
			continue
		}
		stats[col] = categoricalStats(values)
	}

	return stats
}

func numericStats(numbers []float64) ColumnStats {
	sum := 0.0
	lo, hi := numbers[0], numbers[0]
	for _, f := range numbers {
		sum += f
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}

	return ColumnStats{
		Type:    ColumnNumeric,
		Count:   len(numbers),
		Average: fixed(sum/float64(len(numbers)), 2),
		Min:     &lo,
		Max:     &hi,
		Range:   fixed(hi-lo, 2),
	}
}

// categoricalStats keeps distinct values in first-seen order; top values are
// not frequency ranked.
func categoricalStats(values []datarow.Value) ColumnStats {
	type key struct {
		kind datarow.Kind
		text string
	}
	seen := make(map[key]struct{}, len(values))
	distinct := make([]datarow.Value, 0, len(values))
	for _, v := range values {
		k := key{kind: v.Kind(), text: v.Text()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		distinct = append(distinct, v)
	}

	unique := len(distinct)
	top := distinct
	if len(top) > maxTopValues {
		top = top[:maxTopValues]
	}

	return ColumnStats{
		Type:         ColumnCategorical,
		Count:        len(values),
		UniqueValues: &unique,
		TopValues:    top,
	}
}

// ComputeDataQuality counts missing cells over all sampled rows.
func ComputeDataQuality(rows []datarow.Row, columns []string) DataQuality {
	quality := make(DataQuality, len(columns))
	if len(rows) == 0 {
		return quality
	}

	total := len(rows)
	for _, col := range columns {
		missing := 0
		for _, r := range rows {
			if v, ok := r[col]; !ok || v.IsMissing() {
				missing++
			}
		}
		completeness := float64(total-missing) / float64(total) * 100
		quality[col] = ColumnQuality{
			Completeness:  fixed(completeness, 1) + "%",
			MissingValues: missing,
			TotalValues:   total,
		}
	}

	return quality
}

func fixed(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) }
