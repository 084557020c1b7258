package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/rosterwire/contest-engine/internal/domain/league"
	qb "github.com/rosterwire/contest-engine/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", markTransient(err))
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		lg, err := leagueFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, lg)
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", markTransient(err))
	}

	lg, err := leagueFromRow(row)
	if err != nil {
		return league.League{}, false, err
	}
	return lg, true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	slots, err := sonic.Marshal(league.NormalizePitcherSlots(l.PitcherSlots))
	if err != nil {
		return fmt.Errorf("encode pitcher slots: %w", err)
	}
	insertModel := leagueInsertModel{
		PublicID:         l.ID,
		Name:             l.Name,
		ProviderLeagueID: l.ProviderLeagueID,
		EncryptedS2:      l.EncryptedS2,
		EncryptedSWID:    l.EncryptedSWID,
		PitcherSlots:     string(slots),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	query, args, err := qb.InsertModel("leagues", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create league: %w", markTransient(err))
	}
	return nil
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	query, args, err := qb.Update("leagues").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete league: %w", markTransient(err))
	}
	return nil
}

func leagueFromRow(row leagueTableModel) (league.League, error) {
	var slots []int
	if row.PitcherSlots != "" {
		if err := sonic.Unmarshal([]byte(row.PitcherSlots), &slots); err != nil {
			return league.League{}, fmt.Errorf("decode pitcher slots for league %s: %w", row.PublicID, err)
		}
	}
	return league.League{
		ID:               row.PublicID,
		Name:             row.Name,
		ProviderLeagueID: row.ProviderLeagueID,
		EncryptedS2:      row.EncryptedS2,
		EncryptedSWID:    row.EncryptedSWID,
		PitcherSlots:     league.NormalizePitcherSlots(slots),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
