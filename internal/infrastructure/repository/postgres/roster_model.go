package postgres

import "time"

type rosterTableModel struct {
	ID          int64      `db:"id"`
	PlayerID    string     `db:"player_id"`
	Club        string     `db:"club"`
	Status      string     `db:"status"`
	ImportedAt  time.Time  `db:"imported_at"`
	ConfirmedAt *time.Time `db:"confirmed_at"`
}

type rosterInsertModel struct {
	PlayerID    string     `db:"player_id"`
	Club        string     `db:"club"`
	Status      string     `db:"status"`
	ImportedAt  time.Time  `db:"imported_at"`
	ConfirmedAt *time.Time `db:"confirmed_at"`
}
