package stats

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Line is one player's numeric stat line for a single date, folded together
// from the raw feed entries for that date.
type Line map[string]float64

// Anomaly records a raw stat value that could not be used as a number.
type Anomaly struct {
	Key  string
	Raw  any
	Used float64
}

// FoldEntries sums the raw stat dictionaries recorded for one date into a
// single numeric line. Doubleheader days produce several dictionaries and
// their values add. Innings parse through the outs notation. Non-numeric
// values degrade: the feed occasionally writes qualitative markers instead
// of counts for home runs and RBI, which count as one event; anything else
// contributes zero and is reported as an anomaly.
func FoldEntries(entries []map[string]any) (Line, []Anomaly) {
	line := Line{}
	var anomalies []Anomaly
	for _, entry := range entries {
		for key, raw := range entry {
			if key == "inningsPitched" {
				line[key] += ParseInnings(raw)
				continue
			}
			if v, ok := toFloat(raw); ok {
				line[key] += v
				continue
			}
			used := markerValue(key, raw)
			line[key] += used
			anomalies = append(anomalies, Anomaly{Key: key, Raw: raw, Used: used})
		}
	}
	return line, anomalies
}

func markerValue(key string, raw any) float64 {
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	switch {
	case key == "homeRuns" && strings.Contains(s, "HR"):
		return 1
	case key == "rbi" && strings.Contains(s, "RBI"):
		return 1
	default:
		return 0
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
