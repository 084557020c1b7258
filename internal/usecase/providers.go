package usecase

import (
	"context"

	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/roster"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
)

// LeagueCredentials is the decrypted cookie pair the lineup provider wants
// on every request. Values never touch storage in the clear.
type LeagueCredentials struct {
	S2   string
	SWID string
}

// LeagueSettings is the subset of the lineup provider's settings payload the
// engine reads when linking a league.
type LeagueSettings struct {
	Name         string
	PitcherSlots []int
}

// LineupProvider reads fantasy league state: team names, daily rosters, and
// league settings.
type LineupProvider interface {
	TeamNames(ctx context.Context, leagueID int, creds LeagueCredentials) (map[int]string, error)
	DailyRoster(ctx context.Context, leagueID int, creds LeagueCredentials, scoringPeriod int) (roster.DailyRoster, error)
	LeagueSettings(ctx context.Context, leagueID int, creds LeagueCredentials) (LeagueSettings, error)
}

// StatsProvider resolves player identities and serves season game logs.
type StatsProvider interface {
	SearchPlayerID(ctx context.Context, name string) (int64, bool, error)
	GameLog(ctx context.Context, canonicalID int64, season int, group stats.Group) ([]gamelog.Entry, error)
}
