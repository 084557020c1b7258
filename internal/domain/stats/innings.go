package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseInnings converts the feed's innings notation into real innings. The
// feed writes partial innings as outs, so "6.2" means six innings and two
// outs, not six and two tenths. Unparseable input counts as zero.
func ParseInnings(raw any) float64 {
	s := strings.TrimSpace(fmt.Sprintf("%v", raw))
	if s == "" {
		return 0
	}
	if !strings.Contains(s, ".") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	}
	whole, frac, _ := strings.Cut(s, ".")
	w, err := strconv.ParseFloat(whole, 64)
	if err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(frac, 64)
	if err != nil {
		return 0
	}
	return w + f/3
}

// FormatValue renders a team value for display. Ratios get four decimals,
// innings go back to the outs notation, everything else is a whole number.
func FormatValue(c Category, v float64) string {
	if c.Kind() == KindRatio {
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
	if c == InningsPitched {
		outs := int(math.Round(v * 3))
		return fmt.Sprintf("%d.%d", outs/3, outs%3)
	}
	return strconv.Itoa(int(v))
}
