package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rosterwire/contest-engine/internal/domain/identity"
	qb "github.com/rosterwire/contest-engine/internal/platform/querybuilder"
)

type IdentityRepository struct {
	db *sqlx.DB
}

func NewIdentityRepository(db *sqlx.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Get(ctx context.Context, leagueLocalID int64, season int) (identity.PlayerIdentity, bool, error) {
	query, args, err := qb.Select("*").From("player_identities").
		Where(
			qb.Eq("league_local_id", leagueLocalID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return identity.PlayerIdentity{}, false, fmt.Errorf("build get player identity query: %w", err)
	}

	var row playerIdentityTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return identity.PlayerIdentity{}, false, nil
		}
		return identity.PlayerIdentity{}, false, fmt.Errorf("get player identity: %w", markTransient(err))
	}

	return identity.PlayerIdentity{
		LeagueLocalID: row.LeagueLocalID,
		Season:        row.Season,
		CanonicalID:   row.CanonicalID,
		Name:          row.Name,
		UpdatedAt:     row.UpdatedAt,
	}, true, nil
}

func (r *IdentityRepository) Upsert(ctx context.Context, pi identity.PlayerIdentity) error {
	insertModel := playerIdentityInsertModel{
		LeagueLocalID: pi.LeagueLocalID,
		Season:        pi.Season,
		CanonicalID:   pi.CanonicalID,
		Name:          pi.Name,
		UpdatedAt:     pi.UpdatedAt,
	}
	query, args, err := qb.InsertModel("player_identities", insertModel, `ON CONFLICT (league_local_id, season)
DO UPDATE SET
    canonical_id = EXCLUDED.canonical_id,
    name = EXCLUDED.name,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert player identity query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player identity: %w", markTransient(err))
	}
	return nil
}
