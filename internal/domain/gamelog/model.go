package gamelog

import (
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/stats"
)

// Entry is one game's raw stat dictionary as the statistics provider
// returned it. Values may be numbers or the provider's marker strings.
type Entry struct {
	Date  string         `json:"date"`
	Stats map[string]any `json:"stat"`
}

// Log is a player's full-season game log for one stat group, stored whole
// and replaced whole on refresh.
type Log struct {
	LeagueLocalID int64
	CanonicalID   int64
	PlayerName    string
	Season        int
	Group         stats.Group
	Entries       []Entry
	UpdatedAt     time.Time
}

// Fresh reports whether the stored log can serve reads today. Logs refresh
// at most once per day; a finished season never goes stale.
func (l Log) Fresh(today time.Time, seasonOver bool) bool {
	if seasonOver {
		return true
	}
	y1, m1, d1 := l.UpdatedAt.UTC().Date()
	y2, m2, d2 := today.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// OnDate returns the raw stat dictionaries recorded for one date. A
// doubleheader yields more than one.
func (l Log) OnDate(date string) []map[string]any {
	var out []map[string]any
	for _, e := range l.Entries {
		if e.Date == date {
			out = append(out, e.Stats)
		}
	}
	return out
}
