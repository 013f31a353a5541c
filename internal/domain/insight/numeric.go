package insight

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"sheet-insights-api/internal/domain/datarow"
)

// NumericMode decides which cells count as numbers.
type NumericMode string

const (
	// NumericLoose accepts the longest numeric prefix of a string ("42abc" is 42),
	// which is how the legacy web client classified columns.
	NumericLoose NumericMode = "loose"
	// NumericStrict requires the whole trimmed string to be a number.
	NumericStrict NumericMode = "strict"
)

func ParseNumericMode(s string) (NumericMode, error) {
	switch NumericMode(strings.ToLower(strings.TrimSpace(s))) {
	case NumericLoose, "":
		return NumericLoose, nil
	case NumericStrict:
		return NumericStrict, nil
	default:
		return "", fmt.Errorf("unknown numeric mode %q", s)
	}
}

// AsNumber returns the finite number a cell converts to under mode.
func (m NumericMode) AsNumber(v datarow.Value) (float64, bool) {
	switch v.Kind() {
	case datarow.KindNumber:
		f := v.Float()
		return f, isFinite(f)
	case datarow.KindString:
		if m == NumericStrict {
			return parseStrict(v.Str())
		}
		return parseLoose(v.Str())
	default:
		return 0, false
	}
}

func parseStrict(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, isFinite(f)
}

// parseLoose scans [sign] digits [. digits] [e [sign] digits] after leading
// whitespace and ignores whatever follows.
func parseLoose(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if mantissa > 0 || frac > 0 {
			i = j
			mantissa += frac
		}
	}
	if mantissa == 0 {
		return 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}

	return f, isFinite(f)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
