package catalog

import (
	"math"
	"strconv"
	"strings"
)

// CompareSizes orders size labels: numeric sizes first and by value, then
// everything else alphabetically.
func CompareSizes(a, b string) int {
	na, aNum := parseNumber(a)
	nb, bNum := parseNumber(b)

	switch {
	case aNum && bNum:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return compareText(a, b)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// compareText compares case-insensitively first so "adidas" sorts next to
// "Adidas", falling back to a byte comparison for a stable order.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
