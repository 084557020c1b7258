package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
	qb "github.com/rosterwire/contest-engine/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Latest returns the most recent snapshot for the contest. A row whose JSON
// columns no longer decode reads as absent, which makes the caller compute
// a fresh one.
func (r *SnapshotRepository) Latest(ctx context.Context, contestID string) (snapshot.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("contest_snapshots").
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("computed_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return snapshot.Snapshot{}, false, fmt.Errorf("build latest snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return snapshot.Snapshot{}, false, nil
		}
		return snapshot.Snapshot{}, false, fmt.Errorf("latest snapshot: %w", markTransient(err))
	}

	snap, ok := snapshotFromRow(row)
	return snap, ok, nil
}

func (r *SnapshotRepository) Append(ctx context.Context, s snapshot.Snapshot) error {
	rankings, err := sonic.Marshal(s.Rankings)
	if err != nil {
		return fmt.Errorf("encode snapshot rankings: %w", err)
	}
	chart, err := sonic.Marshal(s.Chart)
	if err != nil {
		return fmt.Errorf("encode snapshot chart: %w", err)
	}
	status, err := sonic.Marshal(s.Status)
	if err != nil {
		return fmt.Errorf("encode snapshot status: %w", err)
	}

	insertModel := snapshotInsertModel{
		PublicID:        s.ID,
		ContestPublicID: s.ContestID,
		Rankings:        string(rankings),
		Chart:           string(chart),
		Warning:         s.Warning,
		Status:          string(status),
		ComputedAt:      s.ComputedAt,
	}
	query, args, err := qb.InsertModel("contest_snapshots", insertModel, "")
	if err != nil {
		return fmt.Errorf("build append snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append snapshot: %w", markTransient(err))
	}
	return nil
}

func (r *SnapshotRepository) DeleteByContest(ctx context.Context, contestID string) error {
	query, args, err := qb.Update("contest_snapshots").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete snapshots by contest query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshots by contest: %w", markTransient(err))
	}
	return nil
}

func snapshotFromRow(row snapshotTableModel) (snapshot.Snapshot, bool) {
	snap := snapshot.Snapshot{
		ID:         row.PublicID,
		ContestID:  row.ContestPublicID,
		Rankings:   []snapshot.TeamValue{},
		Warning:    row.Warning,
		ComputedAt: row.ComputedAt,
	}
	if row.Rankings != "" {
		if err := sonic.Unmarshal([]byte(row.Rankings), &snap.Rankings); err != nil {
			return snapshot.Snapshot{}, false
		}
	}
	if row.Chart != "" {
		if err := sonic.Unmarshal([]byte(row.Chart), &snap.Chart); err != nil {
			return snapshot.Snapshot{}, false
		}
	}
	if row.Status != "" {
		if err := sonic.Unmarshal([]byte(row.Status), &snap.Status); err != nil {
			return snapshot.Snapshot{}, false
		}
	}
	return snap, true
}
