package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/season"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	basecache "github.com/rosterwire/contest-engine/internal/platform/cache"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

// GameLogService serves season game logs through two cache layers: the
// persistent log table, refreshed at most once per day, and an in-memory
// store that absorbs repeat reads within one computation pass.
type GameLogService struct {
	gamelogRepo gamelog.Repository
	provider    StatsProvider
	season      season.Season
	memo        *basecache.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewGameLogService(gamelogRepo gamelog.Repository, provider StatsProvider, s season.Season, memo *basecache.Store, logger *logging.Logger) *GameLogService {
	if memo == nil {
		memo = basecache.NewStore(time.Hour)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GameLogService{
		gamelogRepo: gamelogRepo,
		provider:    provider,
		season:      s,
		memo:        memo,
		logger:      logger,
		now:         time.Now,
	}
}

// PlayerRef identifies one player for log prefetching.
type PlayerRef struct {
	LeagueLocalID int64
	CanonicalID   int64
	Name          string
}

// Log returns the player's full-season game log for one stat group. An
// error means the log is unavailable this pass and the player should be
// skipped; failures are never cached.
func (s *GameLogService) Log(ctx context.Context, leagueLocalID, canonicalID int64, name string, group stats.Group) ([]gamelog.Entry, error) {
	key := fmt.Sprintf("gamelog:%d:%d:%s", leagueLocalID, s.season.Year, group)
	value, err := s.memo.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.load(ctx, leagueLocalID, canonicalID, name, group)
	})
	if err != nil {
		return nil, err
	}
	entries, ok := value.([]gamelog.Entry)
	if !ok {
		return nil, fmt.Errorf("unexpected cached game log type %T", value)
	}
	return entries, nil
}

// Prefetch warms the in-memory layer for a set of players concurrently.
// Individual failures are logged and dropped; the players will be retried
// on the sequential pass.
func (s *GameLogService) Prefetch(ctx context.Context, players []PlayerRef, group stats.Group, workers int) {
	if len(players) == 0 {
		return
	}
	if workers <= 0 {
		workers = 4
	}
	p := pool.New().WithMaxGoroutines(workers)
	for _, ref := range players {
		ref := ref
		p.Go(func() {
			if _, err := s.Log(ctx, ref.LeagueLocalID, ref.CanonicalID, ref.Name, group); err != nil {
				s.logger.DebugContext(ctx, "game log prefetch miss",
					"player_name", ref.Name,
					"league_local_id", ref.LeagueLocalID,
					"error", err,
				)
			}
		})
	}
	p.Wait()
}

func (s *GameLogService) load(ctx context.Context, leagueLocalID, canonicalID int64, name string, group stats.Group) ([]gamelog.Entry, error) {
	today := s.now().UTC()

	stored, exists, err := s.gamelogRepo.Get(ctx, leagueLocalID, s.season.Year, group)
	if err != nil {
		return nil, fmt.Errorf("get stored game log: %w", err)
	}
	if exists && len(stored.Entries) > 0 && stored.Fresh(today, s.season.Over(today)) {
		return stored.Entries, nil
	}

	entries, err := s.provider.GameLog(ctx, canonicalID, s.season.Year, group)
	if err != nil {
		// Keep serving yesterday's log when the provider is down.
		if exists && len(stored.Entries) > 0 {
			s.logger.WarnContext(ctx, "game log refresh failed, serving stale copy",
				"player_name", name,
				"league_local_id", leagueLocalID,
				"error", err,
			)
			return stored.Entries, nil
		}
		return nil, err
	}

	record := gamelog.Log{
		LeagueLocalID: leagueLocalID,
		CanonicalID:   canonicalID,
		PlayerName:    name,
		Season:        s.season.Year,
		Group:         group,
		Entries:       entries,
		UpdatedAt:     today,
	}
	if err := s.gamelogRepo.Upsert(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "store game log failed",
			"player_name", name,
			"league_local_id", leagueLocalID,
			"error", err,
		)
	}
	return entries, nil
}
