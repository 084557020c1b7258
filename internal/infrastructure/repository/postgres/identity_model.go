package postgres

import "time"

type playerIdentityTableModel struct {
	ID            int64     `db:"id"`
	LeagueLocalID int64     `db:"league_local_id"`
	Season        int       `db:"season"`
	CanonicalID   int64     `db:"canonical_id"`
	Name          string    `db:"name"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type playerIdentityInsertModel struct {
	LeagueLocalID int64     `db:"league_local_id"`
	Season        int       `db:"season"`
	CanonicalID   int64     `db:"canonical_id"`
	Name          string    `db:"name"`
	UpdatedAt     time.Time `db:"updated_at"`
}
