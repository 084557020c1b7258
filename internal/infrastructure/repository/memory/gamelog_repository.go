package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rosterwire/contest-engine/internal/domain/gamelog"
	"github.com/rosterwire/contest-engine/internal/domain/stats"
)

type GameLogRepository struct {
	mu    sync.RWMutex
	items map[string]gamelog.Log
}

func NewGameLogRepository() *GameLogRepository {
	return &GameLogRepository{items: make(map[string]gamelog.Log)}
}

func (r *GameLogRepository) Get(_ context.Context, leagueLocalID int64, season int, group stats.Group) (gamelog.Log, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[gamelogKey(leagueLocalID, season, group)]
	if !ok {
		return gamelog.Log{}, false, nil
	}
	return cloneLog(l), true, nil
}

func (r *GameLogRepository) Upsert(_ context.Context, l gamelog.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[gamelogKey(l.LeagueLocalID, l.Season, l.Group)] = cloneLog(l)
	return nil
}

func gamelogKey(leagueLocalID int64, season int, group stats.Group) string {
	return fmt.Sprintf("%d::%d::%s", leagueLocalID, season, group)
}

func cloneLog(l gamelog.Log) gamelog.Log {
	out := l
	out.Entries = make([]gamelog.Entry, len(l.Entries))
	copy(out.Entries, l.Entries)
	return out
}
