package cli

import (
	"fmt"
	"math"
	"strings"
)

// MissingValue is the placeholder for unavailable measurements.
const MissingValue = "-"

// SilenceFloorDB is the level at or below which a dB value prints as silence.
const SilenceFloorDB = -120.0

// MetricRow is one row of a MetricTable. Values are pre-formatted.
type MetricRow struct {
	Label  string
	Values []string
	Unit   string
}

// MetricTable formats aligned columns for metric comparison, for example
// input against output.
type MetricTable struct {
	Headers []string
	Rows    []MetricRow
}

// String renders the table. Labels are left-aligned, values right-aligned
// and units follow the last value column. Missing values print as
// MissingValue.
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	unitWidth := 0
	valueWidths := make([]int, len(t.Headers))

	for i, h := range t.Headers {
		valueWidths[i] = len(h)
	}

	for _, row := range t.Rows {
		labelWidth = max(labelWidth, len(row.Label))
		unitWidth = max(unitWidth, len(row.Unit))

		for i, v := range row.Values {
			if i < len(valueWidths) {
				valueWidths[i] = max(valueWidths[i], len(v))
			}
		}
	}

	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, h := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], h))
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		for i := range t.Headers {
			v := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				v = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], v))
		}

		if unitWidth > 0 {
			sb.WriteString(row.Unit)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMetric formats v with the given decimals. Non-finite values print as
// MissingValue and tiny non-zero values in scientific notation.
func FormatMetric(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return MissingValue
	}

	if v != 0 && math.Abs(v) < 0.0001 {
		return fmt.Sprintf("%.2e", v)
	}

	return fmt.Sprintf("%.*f", decimals, v)
}

// FormatDB formats a dB value, printing levels at or below SilenceFloorDB as
// "< -120".
func FormatDB(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 1) {
		return MissingValue
	}

	if math.IsInf(v, -1) || v <= SilenceFloorDB {
		return "< -120"
	}

	return fmt.Sprintf("%.*f", decimals, v)
}
