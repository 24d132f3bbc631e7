package validation

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts a localized number to a float. The decimal separator
// is inferred: when both "." and "," appear, the first one is the thousands
// separator; a single "," is the decimal separator; a separator that appears
// several times is a thousands separator. Spaces are ignored.
//
//	ParseNumber("1.234,56") // 1234.56, true
//	ParseNumber("1,234.56") // 1234.56, true
//	ParseNumber("12,5")     // 12.5, true
func ParseNumber(s string) (float64, bool) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, false
	}
	dot := strings.IndexByte(s, '.')
	comma := strings.IndexByte(s, ',')

	switch {
	case dot >= 0 && comma >= 0:
		if dot < comma {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0 && strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
