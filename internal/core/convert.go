package core

// convert.go turns raw cell values into typed product attributes.
//
// Input comes from spreadsheets edited by hand, so the helpers tolerate:
//   - currency symbols, thousands separators and decimal commas in prices
//   - several boolean spellings (yes/no, si/no, true/false, 1/0)
//   - Excel formula prefixes (="value")
//   - list values written either as a JSON array or separated by ';'

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a plain decimal after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParsePrice converts a price cell to a decimal.
// Handles currency symbols, thousands separators, decimal commas ("24,90",
// "1.234,56") and accounting negatives "(1.00)".
// Sign is preserved; callers decide whether negatives are acceptable.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty value")
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = normalizeSeparators(strings.NewReplacer("$", "", "€", "", "£", "", " ", "").Replace(s))
	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("invalid number format")
	}
	return decimal.NewFromString(s)
}

// normalizeSeparators rewrites s so '.' is the only decimal separator.
// When both separators appear, the last one is the decimal separator. A lone
// comma followed by one or two digits is a decimal comma; any other comma
// groups thousands.
func normalizeSeparators(s string) string {
	lastComma, lastDot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case lastComma < 0:
		return s
	case lastDot > lastComma:
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	}
	if frac := len(s) - lastComma - 1; strings.Count(s, ",") == 1 && frac >= 1 && frac <= 2 {
		return strings.Replace(s, ",", ".", 1)
	}
	return strings.ReplaceAll(s, ",", "")
}

// ParseInt converts an integer cell. Decimal input with a zero fraction ("12.0") is accepted.
// Values must fit a 32-bit INTEGER column.
func ParseInt(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(i), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("invalid integer format")
	}
	if d.LessThan(decimal.NewFromInt(math.MinInt32)) || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, fmt.Errorf("integer out of range")
	}
	return int(d.IntPart()), nil
}

// ParseBool accepts true/false, yes/no, si/no, t/f, y/n, 1/0.
func ParseBool(s string) (bool, error) {
	switch foldKey(s) {
	case "true", "t", "yes", "y", "si", "s", "1":
		return true, nil
	case "false", "f", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("must be yes/no, true/false, or 1/0")
	}
}

// ParseList reads a list cell. A JSON array literal is tried first;
// anything else is split on ';'. Blank items are dropped.
func ParseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			out := make([]string, 0, len(items))
			for _, item := range items {
				v := strings.TrimSpace(fmt.Sprint(item))
				if item != nil && v != "" {
					out = append(out, v)
				}
			}
			return out
		}
	}

	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cleanValue trims a data cell and unwraps the Excel text prefix ="...".
// Quotes inside the value are content and are kept.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}

// CleanCell removes common CSV artifacts from a header cell:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}
