package retrying

import (
	"context"

	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/identity"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	"github.com/rosterwire/contest-engine/internal/platform/retry"
)

// Decorators that re-run storage calls failing with a transient mark. The
// postgres layer marks driver errors; anything else passes through on the
// first attempt.

type LeagueRepository struct {
	next   league.Repository
	policy retry.Policy
}

func NewLeagueRepository(next league.Repository, policy retry.Policy) *LeagueRepository {
	return &LeagueRepository{next: next, policy: retry.NormalizePolicy(policy)}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	var out []league.League
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	var (
		out    league.League
		exists bool
	)
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.GetByID(ctx, leagueID)
		return err
	})
	return out, exists, err
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Create(ctx, l)
	})
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Delete(ctx, leagueID)
	})
}

type ContestRepository struct {
	next   contest.Repository
	policy retry.Policy
}

func NewContestRepository(next contest.Repository, policy retry.Policy) *ContestRepository {
	return &ContestRepository{next: next, policy: retry.NormalizePolicy(policy)}
}

func (r *ContestRepository) List(ctx context.Context) ([]contest.Contest, error) {
	var out []contest.Contest
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *ContestRepository) ListByLeague(ctx context.Context, leagueID string) ([]contest.Contest, error) {
	var out []contest.Contest
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.ListByLeague(ctx, leagueID)
		return err
	})
	return out, err
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	var (
		out    contest.Contest
		exists bool
	)
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.GetByID(ctx, contestID)
		return err
	})
	return out, exists, err
}

func (r *ContestRepository) Create(ctx context.Context, c contest.Contest) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Create(ctx, c)
	})
}

func (r *ContestRepository) Delete(ctx context.Context, contestID string) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Delete(ctx, contestID)
	})
}

func (r *ContestRepository) DeleteByLeague(ctx context.Context, leagueID string) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.DeleteByLeague(ctx, leagueID)
	})
}

type IdentityRepository struct {
	next   identity.Repository
	policy retry.Policy
}

func NewIdentityRepository(next identity.Repository, policy retry.Policy) *IdentityRepository {
	return &IdentityRepository{next: next, policy: retry.NormalizePolicy(policy)}
}

func (r *IdentityRepository) Get(ctx context.Context, leagueLocalID int64, season int) (identity.PlayerIdentity, bool, error) {
	var (
		out    identity.PlayerIdentity
		exists bool
	)
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.Get(ctx, leagueLocalID, season)
		return err
	})
	return out, exists, err
}

func (r *IdentityRepository) Upsert(ctx context.Context, pi identity.PlayerIdentity) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Upsert(ctx, pi)
	})
}

type GameLogRepository struct {
	next   gamelog.Repository
	policy retry.Policy
}

func NewGameLogRepository(next gamelog.Repository, policy retry.Policy) *GameLogRepository {
	return &GameLogRepository{next: next, policy: retry.NormalizePolicy(policy)}
}

func (r *GameLogRepository) Get(ctx context.Context, leagueLocalID int64, season int, group stats.Group) (gamelog.Log, bool, error) {
	var (
		out    gamelog.Log
		exists bool
	)
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.Get(ctx, leagueLocalID, season, group)
		return err
	})
	return out, exists, err
}

func (r *GameLogRepository) Upsert(ctx context.Context, l gamelog.Log) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Upsert(ctx, l)
	})
}

type SnapshotRepository struct {
	next   snapshot.Repository
	policy retry.Policy
}

func NewSnapshotRepository(next snapshot.Repository, policy retry.Policy) *SnapshotRepository {
	return &SnapshotRepository{next: next, policy: retry.NormalizePolicy(policy)}
}

func (r *SnapshotRepository) Latest(ctx context.Context, contestID string) (snapshot.Snapshot, bool, error) {
	var (
		out    snapshot.Snapshot
		exists bool
	)
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.Latest(ctx, contestID)
		return err
	})
	return out, exists, err
}

func (r *SnapshotRepository) Append(ctx context.Context, s snapshot.Snapshot) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Append(ctx, s)
	})
}

func (r *SnapshotRepository) DeleteByContest(ctx context.Context, contestID string) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.DeleteByContest(ctx, contestID)
	})
}
