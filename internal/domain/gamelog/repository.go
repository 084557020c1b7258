package gamelog

import (
	"context"

	"github.com/rosterwire/contest-engine/internal/domain/stats"
)

// Repository describes game log persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, leagueLocalID int64, season int, group stats.Group) (Log, bool, error)
	Upsert(ctx context.Context, l Log) error
}
