package roster

import "github.com/rosterwire/contest-engine/internal/domain/stats"

// Lineup slot boundaries from the provider's roster model. Slots 0 through
// 12 are active hitting positions, 13 through 15 hold pitchers, 16 is the
// bench.
const (
	MaxHitterSlot = 12
	BenchSlot     = 16
)

// Entry is one player's slot assignment on a team for a single day.
type Entry struct {
	PlayerID   int64
	PlayerName string
	LineupSlot int
}

// Team is one fantasy team's roster for a single scoring day.
type Team struct {
	TeamID  int
	Entries []Entry
}

// DailyRoster holds every team's roster for one scoring day. A nil slice
// means the day could not be fetched.
type DailyRoster []Team

// Starter reports whether the entry occupies a slot that accrues stats for
// the category group. Entries without a player name never start.
func (e Entry) Starter(group stats.Group, pitcherSlots map[int]bool) bool {
	if e.PlayerName == "" {
		return false
	}
	if group == stats.GroupHitting {
		return e.LineupSlot <= MaxHitterSlot
	}
	return pitcherSlots[e.LineupSlot]
}
