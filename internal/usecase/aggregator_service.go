package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/roster"
	"github.com/rosterwire/contest-engine/internal/domain/season"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

// Computation is the raw outcome of one aggregation pass: finalized
// rankings plus the days that produced no data.
type Computation struct {
	Rankings   []snapshot.TeamValue
	NoDataDays []string
}

// Warning renders the user-facing note about days without stats.
func (c Computation) Warning() string {
	if len(c.NoDataDays) == 0 {
		return ""
	}
	return fmt.Sprintf(
		"Warning: No pitching stats found for %d day(s): %s. Try a different date range.",
		len(c.NoDataDays), strings.Join(c.NoDataDays, ", "),
	)
}

// AggregatorService walks a contest's date range day by day, resolves each
// team's starters, folds their game-log lines into per-team totals with the
// category's rule, and finalizes a ranking. Accumulation is strictly
// sequential; only fetches fan out.
type AggregatorService struct {
	rosters    *RosterService
	identities *IdentityService
	logs       *GameLogService
	season     season.Season
	logger     *logging.Logger
}

func NewAggregatorService(rosters *RosterService, identities *IdentityService, logs *GameLogService, s season.Season, logger *logging.Logger) *AggregatorService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregatorService{
		rosters:    rosters,
		identities: identities,
		logs:       logs,
		season:     s,
		logger:     logger,
	}
}

// Compute aggregates the contest's category over start through
// min(end, today). The caller guarantees the contest has started.
func (s *AggregatorService) Compute(ctx context.Context, lg league.League, creds LeagueCredentials, c contest.Contest, today time.Time) (Computation, error) {
	ctx, span := startUsecaseSpan(ctx, "AggregatorService.Compute")
	defer span.End()

	rule, err := stats.RuleFor(c.Category)
	if err != nil {
		return Computation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	group := c.Category.Group()
	pitcherSlots := lg.PitcherSlotSet()

	teamNames, err := s.rosters.TeamNames(ctx, lg.ProviderLeagueID, creds)
	if err != nil {
		return Computation{}, err
	}

	totals := make(map[string]*stats.Totals, len(teamNames))
	for _, name := range teamNames {
		totals[name] = &stats.Totals{}
	}

	effectiveEnd := c.EndDate
	if today.Before(effectiveEnd) {
		effectiveEnd = today
	}

	rosters, err := s.rosters.Rosters(ctx, lg.ProviderLeagueID, creds, c.StartDate, effectiveEnd)
	if err != nil {
		return Computation{}, err
	}

	var noDataDays []string
	for day := c.StartDate; !day.After(effectiveEnd); day = day.AddDate(0, 0, 1) {
		dateStr := day.Format(time.DateOnly)
		daily := rosters[dateStr]
		if len(daily) == 0 {
			if !(s.season.InBreak(day) && group == stats.GroupPitching) {
				noDataDays = append(noDataDays, dateStr)
			}
			continue
		}

		statsFound := s.accumulateDay(ctx, rule, group, pitcherSlots, teamNames, totals, daily, dateStr)
		if !statsFound && group == stats.GroupPitching && !s.season.InBreak(day) {
			noDataDays = append(noDataDays, dateStr)
		}
	}

	rankings := make([]snapshot.TeamValue, 0, len(totals))
	for name, t := range totals {
		rankings = append(rankings, snapshot.TeamValue{Team: name, Value: stats.Finalize(c.Category, *t)})
	}
	sortRankings(rankings, c.Category)

	return Computation{Rankings: rankings, NoDataDays: noDataDays}, nil
}

// accumulateDay folds one day's starters into the totals. The seen set
// guards against a player appearing on several rosters the same day; it
// resets with each day.
func (s *AggregatorService) accumulateDay(
	ctx context.Context,
	rule stats.Rule,
	group stats.Group,
	pitcherSlots map[int]bool,
	teamNames map[int]string,
	totals map[string]*stats.Totals,
	daily roster.DailyRoster,
	dateStr string,
) bool {
	seen := make(map[int64]bool)
	statsFound := false

	starters := make([]PlayerRef, 0, 64)
	type pending struct {
		team      string
		canonical int64
		ref       PlayerRef
	}
	var work []pending

	for _, team := range daily {
		teamName, ok := teamNames[team.TeamID]
		if !ok {
			teamName = fmt.Sprintf("Team %d", team.TeamID)
		}
		if _, exists := totals[teamName]; !exists {
			totals[teamName] = &stats.Totals{}
		}
		for _, entry := range team.Entries {
			if !entry.Starter(group, pitcherSlots) {
				continue
			}
			canonical, ok, err := s.identities.Resolve(ctx, entry.PlayerName, entry.PlayerID)
			if err != nil {
				s.logger.WarnContext(ctx, "identity resolution failed, skipping player",
					"player_name", entry.PlayerName,
					"date", dateStr,
					"error", err,
				)
				continue
			}
			if !ok {
				continue
			}
			if seen[canonical] {
				continue
			}
			seen[canonical] = true
			ref := PlayerRef{LeagueLocalID: entry.PlayerID, CanonicalID: canonical, Name: entry.PlayerName}
			starters = append(starters, ref)
			work = append(work, pending{team: teamName, canonical: canonical, ref: ref})
		}
	}

	s.logs.Prefetch(ctx, starters, group, 0)

	for _, p := range work {
		entries, err := s.logs.Log(ctx, p.ref.LeagueLocalID, p.canonical, p.ref.Name, group)
		if err != nil {
			s.logger.WarnContext(ctx, "game log unavailable, skipping player",
				"player_name", p.ref.Name,
				"date", dateStr,
				"error", err,
			)
			continue
		}

		var dayStats []map[string]any
		for _, e := range entries {
			if e.Date == dateStr {
				dayStats = append(dayStats, e.Stats)
			}
		}
		if len(dayStats) == 0 {
			continue
		}
		if len(dayStats) > 1 {
			s.logger.DebugContext(ctx, "doubleheader day",
				"player_name", p.ref.Name,
				"date", dateStr,
				"games", len(dayStats),
			)
		}
		statsFound = true

		line, anomalies := stats.FoldEntries(dayStats)
		for _, a := range anomalies {
			s.logger.WarnContext(ctx, "non-numeric stat value",
				"player_name", p.ref.Name,
				"date", dateStr,
				"stat_key", a.Key,
				"raw_value", fmt.Sprintf("%v", a.Raw),
				"counted_as", a.Used,
			)
		}

		if err := rule.Apply(totals[p.team], line); err != nil {
			s.logger.WarnContext(ctx, "stat line failed category guard",
				"player_name", p.ref.Name,
				"date", dateStr,
				"category", rule.Category.String(),
				"error", err,
			)
		}
	}

	return statsFound
}
