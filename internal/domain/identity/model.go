package identity

import "time"

// PlayerIdentity maps a league-local player id to the statistics provider's
// canonical id for one season. League-local ids are reassigned across
// seasons, so the season is part of the key.
type PlayerIdentity struct {
	LeagueLocalID int64
	Season        int
	CanonicalID   int64
	Name          string
	UpdatedAt     time.Time
}

// manualOverrides pins league-local ids whose name search resolves to the
// wrong person or to nobody. Curated from observed mismatches.
var manualOverrides = map[int64]int64{
	30820:   458681, // Lance Lynn
	39832:   660271, // Shohei Ohtani
	4917888: 686973, // Louie Varland
	40934:   642557, // Aaron Civale
	31864:   592836, // Taijuan Walker
	32525:   593871, // Jorge Polanco
	5134630: 684007, // Shota Imanaga
}

// ManualOverride returns the pinned canonical id for a league-local id, if
// one exists. Overrides win over every other resolution source.
func ManualOverride(leagueLocalID int64) (int64, bool) {
	id, ok := manualOverrides[leagueLocalID]
	return id, ok
}
