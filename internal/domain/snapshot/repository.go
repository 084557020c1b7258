package snapshot

import "context"

// Repository describes snapshot persistence needs from use cases.
type Repository interface {
	Latest(ctx context.Context, contestID string) (Snapshot, bool, error)
	Append(ctx context.Context, s Snapshot) error
	DeleteByContest(ctx context.Context, contestID string) error
}
