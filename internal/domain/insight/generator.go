package insight

import (
	"fmt"
	"strings"

	"sheet-insights-api/internal/domain/datarow"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusEmpty    Status = "empty"
	StatusDegraded Status = "degraded"
)

type Report struct {
	Summary         string      `json:"summary"`
	Patterns        []string    `json:"patterns"`
	Recommendations []string    `json:"recommendations"`
	Statistics      Statistics  `json:"statistics"`
	DataQuality     DataQuality `json:"dataQuality"`
	Status          Status      `json:"status"`
}

var recommendations = []string{
	"Use data visualization to better understand patterns and trends",
	"Consider creating charts and graphs for key metrics",
	"Export the analyzed data for further processing",
	"Review data quality metrics to ensure data integrity",
	"Consider segmenting data by categorical variables for deeper insights",
}

// EmptyReport is returned for files without stored rows.
func EmptyReport() *Report {
	return &Report{
		Summary:         "No data available for analysis",
		Patterns:        []string{},
		Recommendations: []string{"Upload data to get AI insights"},
		Statistics:      Statistics{},
		DataQuality:     DataQuality{},
		Status:          StatusEmpty,
	}
}

// FallbackReport is what clients see when analysis could not run.
func FallbackReport() *Report {
	return &Report{
		Summary:         "Unable to generate insights at this time",
		Patterns:        []string{},
		Recommendations: []string{"Try again later"},
		Statistics:      Statistics{},
		DataQuality:     DataQuality{},
		Status:          StatusDegraded,
	}
}

type Analyzer struct {
	Mode NumericMode
}

func NewAnalyzer(mode NumericMode) Analyzer { return Analyzer{Mode: mode} }

// Analyze runs statistics, data quality and text generation over a sample.
func (a Analyzer) Analyze(fileName string, rows []datarow.Row, header []string) *Report {
	if len(rows) == 0 {
		return EmptyReport()
	}

	columns := Columns(rows, header)
	stats := ComputeStatistics(rows, columns, a.Mode)
	quality := ComputeDataQuality(rows, columns)

	summary, patterns := Describe(fileName, len(rows), columns, stats)

	return &Report{
		Summary:         summary,
		Patterns:        patterns,
		Recommendations: append([]string(nil), recommendations...),
		Statistics:      stats,
		DataQuality:     quality,
		Status:          StatusOK,
	}
}

// Describe renders the summary sentence and pattern lines for computed statistics.
func Describe(fileName string, rowCount int, columns []string, stats Statistics) (string, []string) {
	numeric, categorical := 0, 0
	for _, col := range columns {
		s, ok := stats[col]
		if !ok {
			continue
		}
		switch s.Type {
		case ColumnNumeric:
			numeric++
		case ColumnCategorical:
			categorical++
		}
	}

	var b strings.Builder
	// sentence spacing is part of the published text, trailing space included
	fmt.Fprintf(&b, "Analysis of %s: The dataset contains %d rows and %d columns. ", fileName, rowCount, len(columns))
	if numeric > 0 {
		fmt.Fprintf(&b, "There are %d numeric columns for quantitative analysis. ", numeric)
	}
	if categorical > 0 {
		fmt.Fprintf(&b, "There are %d categorical columns for grouping and classification.", categorical)
	}

	patterns := make([]string, 0, 3)
	if numeric > 0 {
		patterns = append(patterns, fmt.Sprintf("%d numeric columns detected for statistical analysis", numeric))
	}
	if categorical > 0 {
		patterns = append(patterns, fmt.Sprintf("%d categorical columns available for grouping analysis", categorical))
	}
	patterns = append(patterns, fmt.Sprintf("Total of %d data points available for analysis", rowCount))

	return b.String(), patterns
}
