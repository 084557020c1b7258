package memory

import (
	"context"
	"sync"

	"github.com/rosterwire/contest-engine/internal/domain/contest"
)

type ContestRepository struct {
	mu     sync.RWMutex
	items  map[string]contest.Contest
	orders []string
}

func NewContestRepository() *ContestRepository {
	return &ContestRepository{items: make(map[string]contest.Contest)}
}

func (r *ContestRepository) List(_ context.Context) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *ContestRepository) ListByLeague(_ context.Context, leagueID string) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0, len(r.orders))
	for _, id := range r.orders {
		if c := r.items[id]; c.LeagueID == leagueID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ContestRepository) GetByID(_ context.Context, contestID string) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[contestID]
	if !ok {
		return contest.Contest{}, false, nil
	}
	return c, true, nil
}

func (r *ContestRepository) Create(_ context.Context, c contest.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; !exists {
		r.orders = append(r.orders, c.ID)
	}
	r.items[c.ID] = c
	return nil
}

func (r *ContestRepository) Delete(_ context.Context, contestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.remove(contestID)
	return nil
}

func (r *ContestRepository) DeleteByLeague(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		if c.LeagueID == leagueID {
			r.remove(id)
		}
	}
	return nil
}

func (r *ContestRepository) remove(contestID string) {
	if _, exists := r.items[contestID]; !exists {
		return
	}
	delete(r.items, contestID)
	for i, id := range r.orders {
		if id == contestID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
}
