package contest

import "context"

// Repository describes contest persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Contest, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Contest, error)
	GetByID(ctx context.Context, contestID string) (Contest, bool, error)
	Create(ctx context.Context, c Contest) error
	Delete(ctx context.Context, contestID string) error
	DeleteByLeague(ctx context.Context, leagueID string) error
}
