package postgres

import "time"

type leagueTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	Name             string     `db:"name"`
	ProviderLeagueID int        `db:"provider_league_id"`
	EncryptedS2      string     `db:"encrypted_s2"`
	EncryptedSWID    string     `db:"encrypted_swid"`
	PitcherSlots     string     `db:"pitcher_slots"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID         string    `db:"public_id"`
	Name             string    `db:"name"`
	ProviderLeagueID int       `db:"provider_league_id"`
	EncryptedS2      string    `db:"encrypted_s2"`
	EncryptedSWID    string    `db:"encrypted_swid"`
	PitcherSlots     string    `db:"pitcher_slots"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
