package cache

import (
	"context"
	"strconv"

	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/identity"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	basecache "github.com/rosterwire/contest-engine/internal/platform/cache"
)

// Read-through decorators over the persistent repositories. Writes go
// straight to the next layer and drop the keys they touched.

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	if err := r.next.Create(ctx, l); err != nil {
		return err
	}
	r.cache.Delete(ctx, "league:list")
	r.cache.Delete(ctx, "league:id:"+l.ID)
	return nil
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	if err := r.next.Delete(ctx, leagueID); err != nil {
		return err
	}
	r.cache.Delete(ctx, "league:list")
	r.cache.Delete(ctx, "league:id:"+leagueID)
	return nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type ContestRepository struct {
	next  contest.Repository
	cache *basecache.Store
}

func NewContestRepository(next contest.Repository, cache *basecache.Store) *ContestRepository {
	return &ContestRepository{next: next, cache: cache}
}

func (r *ContestRepository) List(ctx context.Context) ([]contest.Contest, error) {
	v, err := r.cache.GetOrLoad(ctx, "contest:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]contest.Contest(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]contest.Contest)
	return append([]contest.Contest(nil), items...), nil
}

func (r *ContestRepository) ListByLeague(ctx context.Context, leagueID string) ([]contest.Contest, error) {
	key := "contest:league:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]contest.Contest(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]contest.Contest)
	return append([]contest.Contest(nil), items...), nil
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	key := "contest:id:" + contestID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, contestID)
		if err != nil {
			return nil, err
		}
		return cachedContestByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return contest.Contest{}, false, err
	}

	cached, _ := v.(cachedContestByID)
	return cached.value, cached.exists, nil
}

func (r *ContestRepository) Create(ctx context.Context, c contest.Contest) error {
	if err := r.next.Create(ctx, c); err != nil {
		return err
	}
	r.cache.Delete(ctx, "contest:list")
	r.cache.Delete(ctx, "contest:league:"+c.LeagueID)
	r.cache.Delete(ctx, "contest:id:"+c.ID)
	return nil
}

func (r *ContestRepository) Delete(ctx context.Context, contestID string) error {
	if err := r.next.Delete(ctx, contestID); err != nil {
		return err
	}
	r.cache.Delete(ctx, "contest:list")
	r.cache.Delete(ctx, "contest:id:"+contestID)
	// The league is unknown here; drop every per-league listing.
	r.cache.DeletePrefix(ctx, "contest:league:")
	return nil
}

func (r *ContestRepository) DeleteByLeague(ctx context.Context, leagueID string) error {
	if err := r.next.DeleteByLeague(ctx, leagueID); err != nil {
		return err
	}
	r.cache.Delete(ctx, "contest:list")
	r.cache.Delete(ctx, "contest:league:"+leagueID)
	r.cache.DeletePrefix(ctx, "contest:id:")
	return nil
}

type cachedContestByID struct {
	value  contest.Contest
	exists bool
}

type IdentityRepository struct {
	next  identity.Repository
	cache *basecache.Store
}

func NewIdentityRepository(next identity.Repository, cache *basecache.Store) *IdentityRepository {
	return &IdentityRepository{next: next, cache: cache}
}

func (r *IdentityRepository) Get(ctx context.Context, leagueLocalID int64, season int) (identity.PlayerIdentity, bool, error) {
	key := "identity:" + strconv.FormatInt(leagueLocalID, 10) + ":" + strconv.Itoa(season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, leagueLocalID, season)
		if err != nil {
			return nil, err
		}
		return cachedIdentity{value: item, exists: exists}, nil
	})
	if err != nil {
		return identity.PlayerIdentity{}, false, err
	}

	cached, _ := v.(cachedIdentity)
	return cached.value, cached.exists, nil
}

func (r *IdentityRepository) Upsert(ctx context.Context, pi identity.PlayerIdentity) error {
	if err := r.next.Upsert(ctx, pi); err != nil {
		return err
	}
	r.cache.Delete(ctx, "identity:"+strconv.FormatInt(pi.LeagueLocalID, 10)+":"+strconv.Itoa(pi.Season))
	return nil
}

type cachedIdentity struct {
	value  identity.PlayerIdentity
	exists bool
}

type SnapshotRepository struct {
	next  snapshot.Repository
	cache *basecache.Store
}

func NewSnapshotRepository(next snapshot.Repository, cache *basecache.Store) *SnapshotRepository {
	return &SnapshotRepository{next: next, cache: cache}
}

func (r *SnapshotRepository) Latest(ctx context.Context, contestID string) (snapshot.Snapshot, bool, error) {
	key := "snapshot:latest:" + contestID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Latest(ctx, contestID)
		if err != nil {
			return nil, err
		}
		return cachedSnapshot{value: item, exists: exists}, nil
	})
	if err != nil {
		return snapshot.Snapshot{}, false, err
	}

	cached, _ := v.(cachedSnapshot)
	return cached.value, cached.exists, nil
}

func (r *SnapshotRepository) Append(ctx context.Context, s snapshot.Snapshot) error {
	if err := r.next.Append(ctx, s); err != nil {
		return err
	}
	r.cache.Delete(ctx, "snapshot:latest:"+s.ContestID)
	return nil
}

func (r *SnapshotRepository) DeleteByContest(ctx context.Context, contestID string) error {
	if err := r.next.DeleteByContest(ctx, contestID); err != nil {
		return err
	}
	r.cache.Delete(ctx, "snapshot:latest:"+contestID)
	return nil
}

type cachedSnapshot struct {
	value  snapshot.Snapshot
	exists bool
}
