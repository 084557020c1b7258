package postgres

import "time"

type snapshotTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	ContestPublicID string     `db:"contest_public_id"`
	Rankings        string     `db:"rankings"`
	Chart           string     `db:"chart"`
	Warning         string     `db:"warning"`
	Status          string     `db:"status"`
	ComputedAt      time.Time  `db:"computed_at"`
	CreatedAt       time.Time  `db:"created_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type snapshotInsertModel struct {
	PublicID        string    `db:"public_id"`
	ContestPublicID string    `db:"contest_public_id"`
	Rankings        string    `db:"rankings"`
	Chart           string    `db:"chart"`
	Warning         string    `db:"warning"`
	Status          string    `db:"status"`
	ComputedAt      time.Time `db:"computed_at"`
}
