package identity

import "context"

// Repository describes identity persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, leagueLocalID int64, season int) (PlayerIdentity, bool, error)
	Upsert(ctx context.Context, pi PlayerIdentity) error
}
