package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
	qb "github.com/rosterwire/contest-engine/internal/platform/querybuilder"
)

type GameLogRepository struct {
	db *sqlx.DB
}

func NewGameLogRepository(db *sqlx.DB) *GameLogRepository {
	return &GameLogRepository{db: db}
}

func (r *GameLogRepository) Get(ctx context.Context, leagueLocalID int64, season int, group stats.Group) (gamelog.Log, bool, error) {
	query, args, err := qb.Select("*").From("game_logs").
		Where(
			qb.Eq("league_local_id", leagueLocalID),
			qb.Eq("season", season),
			qb.Eq("stat_group", string(group)),
		).
		ToSQL()
	if err != nil {
		return gamelog.Log{}, false, fmt.Errorf("build get game log query: %w", err)
	}

	var row gameLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gamelog.Log{}, false, nil
		}
		return gamelog.Log{}, false, fmt.Errorf("get game log: %w", markTransient(err))
	}

	var entries []gamelog.Entry
	if row.Entries != "" {
		if err := sonic.Unmarshal([]byte(row.Entries), &entries); err != nil {
			// An unreadable row is the same as a missing one: the caller
			// refetches from the provider and overwrites it.
			return gamelog.Log{}, false, nil
		}
	}

	return gamelog.Log{
		LeagueLocalID: row.LeagueLocalID,
		CanonicalID:   row.CanonicalID,
		PlayerName:    row.PlayerName,
		Season:        row.Season,
		Group:         stats.Group(row.StatGroup),
		Entries:       entries,
		UpdatedAt:     row.UpdatedAt,
	}, true, nil
}

func (r *GameLogRepository) Upsert(ctx context.Context, l gamelog.Log) error {
	entries, err := sonic.Marshal(l.Entries)
	if err != nil {
		return fmt.Errorf("encode game log entries: %w", err)
	}
	insertModel := gameLogInsertModel{
		LeagueLocalID: l.LeagueLocalID,
		CanonicalID:   l.CanonicalID,
		PlayerName:    l.PlayerName,
		Season:        l.Season,
		StatGroup:     string(l.Group),
		Entries:       string(entries),
		UpdatedAt:     l.UpdatedAt,
	}
	query, args, err := qb.InsertModel("game_logs", insertModel, `ON CONFLICT (league_local_id, season, stat_group)
DO UPDATE SET
    canonical_id = EXCLUDED.canonical_id,
    player_name = EXCLUDED.player_name,
    entries = EXCLUDED.entries,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert game log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game log: %w", markTransient(err))
	}
	return nil
}
