package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/roster"
	"github.com/rosterwire/contest-engine/internal/domain/season"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	"github.com/rosterwire/contest-engine/internal/infrastructure/repository/memory"
	basecache "github.com/rosterwire/contest-engine/internal/platform/cache"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

var testSeason = season.Default(2025)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return d.UTC()
}

func newAggregatorForTest(t *testing.T, lineup *fakeLineupProvider, statsProv *fakeStatsProvider, today time.Time) *AggregatorService {
	t.Helper()
	logger := logging.NewNop()
	rosterSvc := NewRosterService(lineup, testSeason, 2, logger)
	idSvc := NewIdentityService(memory.NewIdentityRepository(), statsProv, testSeason.Year, logger)
	logSvc := NewGameLogService(memory.NewGameLogRepository(), statsProv, testSeason, basecache.NewStore(time.Minute), logger)
	logSvc.now = func() time.Time { return today }
	return NewAggregatorService(rosterSvc, idSvc, logSvc, testSeason, logger)
}

func testLeague() league.League {
	return league.League{
		ID:               "lg1",
		Name:             "Test League",
		ProviderLeagueID: 42,
		EncryptedS2:      "enc:s2",
		EncryptedSWID:    "enc:swid",
		PitcherSlots:     []int{13, 14, 15},
	}
}

func hittingEntries(values map[string]float64, dates ...string) []gamelog.Entry {
	out := make([]gamelog.Entry, 0, len(dates))
	for _, d := range dates {
		statsMap := make(map[string]any, len(values))
		for k, v := range values {
			statsMap[k] = v
		}
		out = append(out, gamelog.Entry{Date: d, Stats: statsMap})
	}
	return out
}

func TestCompute_CountingCategoryAcrossDays(t *testing.T) {
	start := day(t, "2025-06-01")
	end := day(t, "2025-06-02")
	today := day(t, "2025-07-01")

	daily := roster.DailyRoster{
		{TeamID: 1, Entries: []roster.Entry{
			{PlayerID: 101, PlayerName: "Alpha One", LineupSlot: 4},
		}},
		{TeamID: 2, Entries: []roster.Entry{
			{PlayerID: 202, PlayerName: "Beta Two", LineupSlot: 10},
			{PlayerID: 303, PlayerName: "Bench Guy", LineupSlot: roster.BenchSlot},
		}},
	}
	lineup := &fakeLineupProvider{
		teamNames: map[int]string{1: "Aces", 2: "Bears"},
		rosters: map[int]roster.DailyRoster{
			testSeason.ScoringPeriod(start): daily,
			testSeason.ScoringPeriod(end):   daily,
		},
	}
	statsProv := &fakeStatsProvider{
		idsByName: map[string]int64{"Alpha One": 901, "Beta Two": 902, "Bench Guy": 903},
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			// Doubleheader on the first day: two entries, values add.
			901: {stats.GroupHitting: append(
				hittingEntries(map[string]float64{"homeRuns": 1}, "2025-06-01", "2025-06-01"),
				hittingEntries(map[string]float64{"homeRuns": 1}, "2025-06-02")...,
			)},
			902: {stats.GroupHitting: hittingEntries(map[string]float64{"homeRuns": 1}, "2025-06-01", "2025-06-02")},
			903: {stats.GroupHitting: hittingEntries(map[string]float64{"homeRuns": 5}, "2025-06-01")},
		},
	}

	agg := newAggregatorForTest(t, lineup, statsProv, today)
	c := contest.Contest{ID: "c1", LeagueID: "lg1", Category: stats.HomeRuns, StartDate: start, EndDate: end}

	comp, err := agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comp.Rankings) != 2 {
		t.Fatalf("unexpected ranking size: %d", len(comp.Rankings))
	}
	if comp.Rankings[0].Team != "Aces" || comp.Rankings[0].Value != 3 {
		t.Fatalf("unexpected leader: %+v", comp.Rankings[0])
	}
	if comp.Rankings[1].Team != "Bears" || comp.Rankings[1].Value != 2 {
		t.Fatalf("unexpected runner-up: %+v", comp.Rankings[1])
	}
	if comp.Warning() != "" {
		t.Fatalf("unexpected warning: %q", comp.Warning())
	}
}

func TestCompute_PlayerCountedOncePerDay(t *testing.T) {
	start := day(t, "2025-06-01")
	today := day(t, "2025-07-01")

	// The same player shows up on both rosters for the day; only the first
	// team in roster order gets the credit.
	daily := roster.DailyRoster{
		{TeamID: 1, Entries: []roster.Entry{{PlayerID: 101, PlayerName: "Alpha One", LineupSlot: 2}}},
		{TeamID: 2, Entries: []roster.Entry{{PlayerID: 101, PlayerName: "Alpha One", LineupSlot: 2}}},
	}
	lineup := &fakeLineupProvider{
		teamNames: map[int]string{1: "Aces", 2: "Bears"},
		rosters:   map[int]roster.DailyRoster{testSeason.ScoringPeriod(start): daily},
	}
	statsProv := &fakeStatsProvider{
		idsByName: map[string]int64{"Alpha One": 901},
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			901: {stats.GroupHitting: hittingEntries(map[string]float64{"rbi": 4}, "2025-06-01")},
		},
	}

	agg := newAggregatorForTest(t, lineup, statsProv, today)
	c := contest.Contest{ID: "c1", LeagueID: "lg1", Category: stats.RBI, StartDate: start, EndDate: start}

	comp, err := agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0.0
	for _, r := range comp.Rankings {
		total += r.Value
	}
	if total != 4 {
		t.Fatalf("player must count once per day: total=%v rankings=%+v", total, comp.Rankings)
	}
}

func TestCompute_PitcherSlotFilter(t *testing.T) {
	start := day(t, "2025-06-10")
	today := day(t, "2025-07-01")

	daily := roster.DailyRoster{
		{TeamID: 1, Entries: []roster.Entry{
			{PlayerID: 11, PlayerName: "Active Arm", LineupSlot: 13},
			{PlayerID: 12, PlayerName: "Narrowed Arm", LineupSlot: 14},
			{PlayerID: 13, PlayerName: "Benched Arm", LineupSlot: roster.BenchSlot},
		}},
	}
	lineup := &fakeLineupProvider{
		teamNames: map[int]string{1: "Aces"},
		rosters:   map[int]roster.DailyRoster{testSeason.ScoringPeriod(start): daily},
	}
	pitchingLog := func(ip string) []gamelog.Entry {
		return []gamelog.Entry{{Date: "2025-06-10", Stats: map[string]any{"inningsPitched": ip}}}
	}
	statsProv := &fakeStatsProvider{
		idsByName: map[string]int64{"Active Arm": 901, "Narrowed Arm": 902, "Benched Arm": 903},
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			901: {stats.GroupPitching: pitchingLog("6.2")},
			902: {stats.GroupPitching: pitchingLog("7.0")},
			903: {stats.GroupPitching: pitchingLog("5.0")},
		},
	}

	agg := newAggregatorForTest(t, lineup, statsProv, today)
	lg := testLeague()
	lg.PitcherSlots = []int{13}
	c := contest.Contest{ID: "c1", LeagueID: "lg1", Category: stats.InningsPitched, StartDate: start, EndDate: start}

	comp, err := agg.Compute(context.Background(), lg, LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 6 + 2.0/3
	if got := comp.Rankings[0].Value; got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("only the active slot should count: got=%v want=%v", got, want)
	}
}

func TestCompute_EmptyRosterDayWarning(t *testing.T) {
	start := day(t, "2025-06-03")
	today := day(t, "2025-07-01")

	lineup := &fakeLineupProvider{
		teamNames: map[int]string{1: "Aces"},
		rosters:   map[int]roster.DailyRoster{},
	}
	statsProv := &fakeStatsProvider{}

	agg := newAggregatorForTest(t, lineup, statsProv, today)
	c := contest.Contest{ID: "c1", LeagueID: "lg1", Category: stats.Strikeouts, StartDate: start, EndDate: start}

	comp, err := agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Warning: No pitching stats found for 1 day(s): 2025-06-03. Try a different date range."
	if comp.Warning() != want {
		t.Fatalf("unexpected warning:\n got=%q\nwant=%q", comp.Warning(), want)
	}
}

func TestCompute_BreakDaySkippedForPitching(t *testing.T) {
	start := day(t, "2025-07-14")
	end := day(t, "2025-07-17")
	today := day(t, "2025-08-01")

	lineup := &fakeLineupProvider{
		teamNames: map[int]string{1: "Aces"},
		rosters:   map[int]roster.DailyRoster{},
	}
	statsProv := &fakeStatsProvider{}

	agg := newAggregatorForTest(t, lineup, statsProv, today)
	c := contest.Contest{ID: "c1", LeagueID: "lg1", Category: stats.WHIP, StartDate: start, EndDate: end}

	comp, err := agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comp.NoDataDays) != 0 {
		t.Fatalf("break days must not flag pitching contests: %v", comp.NoDataDays)
	}

	// A hitting contest over the same window still reports the gap.
	c.Category = stats.Hits
	comp, err = agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comp.NoDataDays) != 4 {
		t.Fatalf("expected four flagged days for hitting, got %v", comp.NoDataDays)
	}
}

func TestCompute_TeamNamesFailureIsFatal(t *testing.T) {
	today := day(t, "2025-07-01")
	lineup := &fakeLineupProvider{teamNamesErr: fmt.Errorf("boom")}
	agg := newAggregatorForTest(t, lineup, &fakeStatsProvider{}, today)
	c := contest.Contest{
		ID: "c1", LeagueID: "lg1", Category: stats.HomeRuns,
		StartDate: day(t, "2025-06-01"), EndDate: day(t, "2025-06-02"),
	}

	_, err := agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCompute_UnresolvedPlayerIsSkipped(t *testing.T) {
	start := day(t, "2025-06-01")
	today := day(t, "2025-07-01")

	daily := roster.DailyRoster{
		{TeamID: 1, Entries: []roster.Entry{
			{PlayerID: 101, PlayerName: "Known Player", LineupSlot: 2},
			{PlayerID: 555, PlayerName: "Unknown Player", LineupSlot: 3},
		}},
	}
	lineup := &fakeLineupProvider{
		teamNames: map[int]string{1: "Aces"},
		rosters:   map[int]roster.DailyRoster{testSeason.ScoringPeriod(start): daily},
	}
	statsProv := &fakeStatsProvider{
		idsByName: map[string]int64{"Known Player": 901},
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			901: {stats.GroupHitting: hittingEntries(map[string]float64{"hits": 2}, "2025-06-01")},
		},
	}

	agg := newAggregatorForTest(t, lineup, statsProv, today)
	c := contest.Contest{ID: "c1", LeagueID: "lg1", Category: stats.Hits, StartDate: start, EndDate: start}

	comp, err := agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("resolution misses must not fail the computation: %v", err)
	}
	if comp.Rankings[0].Value != 2 {
		t.Fatalf("unexpected value: %+v", comp.Rankings[0])
	}
}

func TestCompute_RatioSentinelRanksLastAscending(t *testing.T) {
	start := day(t, "2025-06-10")
	today := day(t, "2025-07-01")

	daily := roster.DailyRoster{
		{TeamID: 1, Entries: []roster.Entry{{PlayerID: 11, PlayerName: "Good Arm", LineupSlot: 13}}},
		{TeamID: 2, Entries: []roster.Entry{{PlayerID: 22, PlayerName: "Odd Arm", LineupSlot: 13}}},
	}
	lineup := &fakeLineupProvider{
		teamNames: map[int]string{1: "Aces", 2: "Bears"},
		rosters:   map[int]roster.DailyRoster{testSeason.ScoringPeriod(start): daily},
	}
	statsProv := &fakeStatsProvider{
		idsByName: map[string]int64{"Good Arm": 901, "Odd Arm": 902},
		logs: map[int64]map[stats.Group][]gamelog.Entry{
			901: {stats.GroupPitching: []gamelog.Entry{
				{Date: "2025-06-10", Stats: map[string]any{"earnedRuns": 2.0, "inningsPitched": "6.0"}},
			}},
			// Earned runs with zero innings never accumulate, so the team
			// finishes at zero and sorts first ascending.
			902: {stats.GroupPitching: []gamelog.Entry{
				{Date: "2025-06-10", Stats: map[string]any{"earnedRuns": 3.0, "inningsPitched": "0"}},
			}},
		},
	}

	agg := newAggregatorForTest(t, lineup, statsProv, today)
	c := contest.Contest{ID: "c1", LeagueID: "lg1", Category: stats.ERA, StartDate: start, EndDate: start}

	comp, err := agg.Compute(context.Background(), testLeague(), LeagueCredentials{}, c, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comp.Rankings[0].Team != "Bears" || comp.Rankings[0].Value != 0 {
		t.Fatalf("unexpected leader: %+v", comp.Rankings[0])
	}
	if comp.Rankings[1].Team != "Aces" || comp.Rankings[1].Value != 3 {
		t.Fatalf("unexpected era: %+v", comp.Rankings[1])
	}
}
