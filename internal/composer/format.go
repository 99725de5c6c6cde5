package composer

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatValue renders an arbitrary fundamentals value for the prompt.
// Missing or non-numeric values pass through; nil becomes "N/A".
func FormatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return "N/A"
	case float64:
		return FormatNumber(n)
	case float32:
		return FormatNumber(float64(n))
	case int:
		return FormatNumber(float64(n))
	case int64:
		return FormatNumber(float64(n))
	case bool:
		return strconv.FormatBool(n)
	case string:
		if n == "" {
			return "N/A"
		}
		return n
	default:
		return fmt.Sprint(v)
	}
}

// FormatNumber applies the magnitude tiers the completion prompt depends
// on: trillion/billion at the usual powers of ten, and the million tier
// already from 1e5 so that 750000 renders as "0.75 million" rather than a
// six-figure comma string. Everything below is comma-grouped with exactly
// two decimals. Negative values keep their sign through the same tiers.
func FormatNumber(v float64) string {
	abs := v
	sign := ""
	if abs < 0 {
		abs = -abs
		sign = "-"
	}
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%s%.2f trillion", sign, abs/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%s%.2f billion", sign, abs/1e9)
	case abs >= 1e5:
		return fmt.Sprintf("%s%.2f million", sign, abs/1e6)
	default:
		return sign + humanize.FormatFloat("#,###.##", abs)
	}
}
