package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rosterwire/contest-engine/internal/domain/roster"
	"github.com/rosterwire/contest-engine/internal/domain/season"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

const (
	rosterChunkDays          = 7
	defaultRosterFetchWorker = 4
)

// RosterService reads team names and day-by-day rosters from the lineup
// provider. Days inside a chunk fetch in parallel; a day that fails stays
// empty rather than failing the whole range.
type RosterService struct {
	provider    LineupProvider
	season      season.Season
	workerCount int
	logger      *logging.Logger
}

func NewRosterService(provider LineupProvider, s season.Season, workerCount int, logger *logging.Logger) *RosterService {
	if workerCount <= 0 {
		workerCount = defaultRosterFetchWorker
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		provider:    provider,
		season:      s,
		workerCount: workerCount,
		logger:      logger,
	}
}

// TeamNames fetches the league's team display names. Failure here is fatal
// to a computation: without team identities there is nothing to rank.
func (s *RosterService) TeamNames(ctx context.Context, leagueID int, creds LeagueCredentials) (map[int]string, error) {
	names, err := s.provider.TeamNames(ctx, leagueID, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch team names: %v", ErrDependencyUnavailable, err)
	}
	return names, nil
}

// Rosters fetches every scoring day's roster in the inclusive range, keyed
// by ISO date. Fetching walks the range in weekly chunks with a bounded
// worker pool per chunk.
func (s *RosterService) Rosters(ctx context.Context, leagueID int, creds LeagueCredentials, from, to time.Time) (map[string]roster.DailyRoster, error) {
	out := make(map[string]roster.DailyRoster)
	var mu sync.Mutex

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return nil, fmt.Errorf("init roster worker pool: %w", err)
	}
	defer pool.Release()

	chunkStart := from
	for !chunkStart.After(to) {
		chunkEnd := chunkStart.AddDate(0, 0, rosterChunkDays-1)
		if chunkEnd.After(to) {
			chunkEnd = to
		}

		var wg sync.WaitGroup
		for day := chunkStart; !day.After(chunkEnd); day = day.AddDate(0, 0, 1) {
			day := day
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				dateStr := day.Format(time.DateOnly)
				period := s.season.ScoringPeriod(day)
				daily, fetchErr := s.provider.DailyRoster(ctx, leagueID, creds, period)
				if fetchErr != nil {
					s.logger.WarnContext(ctx, "roster fetch failed, counting day as empty",
						"league_id", leagueID,
						"date", dateStr,
						"scoring_period", period,
						"error", fetchErr,
					)
					daily = nil
				}
				mu.Lock()
				out[dateStr] = daily
				mu.Unlock()
			})
			if submitErr != nil {
				wg.Done()
				mu.Lock()
				out[day.Format(time.DateOnly)] = nil
				mu.Unlock()
			}
		}
		wg.Wait()

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		chunkStart = chunkEnd.AddDate(0, 0, 1)
	}

	return out, nil
}
