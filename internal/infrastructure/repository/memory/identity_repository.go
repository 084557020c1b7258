package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rosterwire/contest-engine/internal/domain/identity"
)

type IdentityRepository struct {
	mu    sync.RWMutex
	items map[string]identity.PlayerIdentity
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{items: make(map[string]identity.PlayerIdentity)}
}

func (r *IdentityRepository) Get(_ context.Context, leagueLocalID int64, season int) (identity.PlayerIdentity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pi, ok := r.items[identityKey(leagueLocalID, season)]
	if !ok {
		return identity.PlayerIdentity{}, false, nil
	}
	return pi, true, nil
}

func (r *IdentityRepository) Upsert(_ context.Context, pi identity.PlayerIdentity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[identityKey(pi.LeagueLocalID, pi.Season)] = pi
	return nil
}

func identityKey(leagueLocalID int64, season int) string {
	return fmt.Sprintf("%d::%d", leagueLocalID, season)
}
