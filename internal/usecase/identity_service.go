package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rosterwire/contest-engine/internal/domain/identity"
	"github.com/rosterwire/contest-engine/internal/platform/logging"
)

// IdentityService resolves league-local player ids to the statistics
// provider's canonical ids. Resolution order: manual overrides, the
// persistent identity table, then a live name search. A player that cannot
// be resolved is skipped, never failed.
type IdentityService struct {
	identityRepo identity.Repository
	provider     StatsProvider
	season       int
	logger       *logging.Logger
	now          func() time.Time
}

func NewIdentityService(identityRepo identity.Repository, provider StatsProvider, seasonYear int, logger *logging.Logger) *IdentityService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IdentityService{
		identityRepo: identityRepo,
		provider:     provider,
		season:       seasonYear,
		logger:       logger,
		now:          time.Now,
	}
}

// Resolve returns the canonical id for a league-local player id. ok=false
// means the player has no known identity; that is not an error.
func (s *IdentityService) Resolve(ctx context.Context, name string, leagueLocalID int64) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, nil
	}

	if canonical, ok := identity.ManualOverride(leagueLocalID); ok {
		return canonical, true, nil
	}

	cached, exists, err := s.identityRepo.Get(ctx, leagueLocalID, s.season)
	if err != nil {
		return 0, false, fmt.Errorf("get player identity: %w", err)
	}
	if exists && cached.CanonicalID > 0 {
		return cached.CanonicalID, true, nil
	}

	canonical, found, err := s.provider.SearchPlayerID(ctx, name)
	if err != nil {
		s.logger.WarnContext(ctx, "player identity search failed",
			"player_name", name,
			"league_local_id", leagueLocalID,
			"error", err,
		)
		return 0, false, nil
	}
	if !found {
		s.logger.WarnContext(ctx, "no canonical id for player",
			"player_name", name,
			"league_local_id", leagueLocalID,
		)
		return 0, false, nil
	}

	record := identity.PlayerIdentity{
		LeagueLocalID: leagueLocalID,
		Season:        s.season,
		CanonicalID:   canonical,
		Name:          name,
		UpdatedAt:     s.now().UTC(),
	}
	if err := s.identityRepo.Upsert(ctx, record); err != nil {
		// The id is still usable this pass; only the cache write failed.
		s.logger.WarnContext(ctx, "store player identity failed",
			"player_name", name,
			"league_local_id", leagueLocalID,
			"error", err,
		)
	}
	return canonical, true, nil
}
