package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rosterwire/contest-engine/internal/domain/contest"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	qb "github.com/rosterwire/contest-engine/internal/platform/querybuilder"
)

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) List(ctx context.Context) ([]contest.Contest, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contests query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contests: %w", markTransient(err))
	}
	return contestsFromRows(rows), nil
}

func (r *ContestRepository) ListByLeague(ctx context.Context, leagueID string) ([]contest.Contest, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contests by league query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contests by league: %w", markTransient(err))
	}
	return contestsFromRows(rows), nil
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(
			qb.Eq("public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return contest.Contest{}, false, fmt.Errorf("build get contest by id query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("get contest by id: %w", markTransient(err))
	}
	return contestFromRow(row), true, nil
}

func (r *ContestRepository) Create(ctx context.Context, c contest.Contest) error {
	insertModel := contestInsertModel{
		PublicID:       c.ID,
		LeaguePublicID: c.LeagueID,
		Category:       c.Category.String(),
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Title:          c.Title,
		CreatedAt:      c.CreatedAt,
	}
	query, args, err := qb.InsertModel("contests", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create contest query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create contest: %w", markTransient(err))
	}
	return nil
}

func (r *ContestRepository) Delete(ctx context.Context, contestID string) error {
	query, args, err := qb.Update("contests").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete contest query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete contest: %w", markTransient(err))
	}
	return nil
}

func (r *ContestRepository) DeleteByLeague(ctx context.Context, leagueID string) error {
	query, args, err := qb.Update("contests").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete contests by league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete contests by league: %w", markTransient(err))
	}
	return nil
}

func contestsFromRows(rows []contestTableModel) []contest.Contest {
	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		out = append(out, contestFromRow(row))
	}
	return out
}

func contestFromRow(row contestTableModel) contest.Contest {
	return contest.Contest{
		ID:        row.PublicID,
		LeagueID:  row.LeaguePublicID,
		Category:  stats.Category(row.Category),
		StartDate: row.StartDate.UTC(),
		EndDate:   row.EndDate.UTC(),
		Title:     row.Title,
		CreatedAt: row.CreatedAt,
	}
}
