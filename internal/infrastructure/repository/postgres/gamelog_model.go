package postgres

import "time"

type gameLogTableModel struct {
	ID            int64     `db:"id"`
	LeagueLocalID int64     `db:"league_local_id"`
	CanonicalID   int64     `db:"canonical_id"`
	PlayerName    string    `db:"player_name"`
	Season        int       `db:"season"`
	StatGroup     string    `db:"stat_group"`
	Entries       string    `db:"entries"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type gameLogInsertModel struct {
	LeagueLocalID int64     `db:"league_local_id"`
	CanonicalID   int64     `db:"canonical_id"`
	PlayerName    string    `db:"player_name"`
	Season        int       `db:"season"`
	StatGroup     string    `db:"stat_group"`
	Entries       string    `db:"entries"`
	UpdatedAt     time.Time `db:"updated_at"`
}
