package memory

import (
	"context"
	"sync"

	"github.com/rosterwire/contest-engine/internal/domain/snapshot"
)

type SnapshotRepository struct {
	mu    sync.RWMutex
	items []snapshot.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Latest(_ context.Context, contestID string) (snapshot.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest snapshot.Snapshot
	found := false
	for _, s := range r.items {
		if s.ContestID != contestID {
			continue
		}
		if !found || s.ComputedAt.After(latest.ComputedAt) {
			latest = s
			found = true
		}
	}
	return latest, found, nil
}

func (r *SnapshotRepository) Append(_ context.Context, s snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, s)
	return nil
}

func (r *SnapshotRepository) DeleteByContest(_ context.Context, contestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, s := range r.items {
		if s.ContestID != contestID {
			kept = append(kept, s)
		}
	}
	r.items = kept
	return nil
}

// Count reports how many snapshots a contest has accumulated.
func (r *SnapshotRepository) Count(_ context.Context, contestID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.items {
		if s.ContestID == contestID {
			n++
		}
	}
	return n
}
