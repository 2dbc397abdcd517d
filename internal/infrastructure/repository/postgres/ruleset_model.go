package postgres

type rulesetTableModel struct {
	ID        int64  `db:"id"`
	Version   string `db:"version"`
	IsCurrent bool   `db:"is_current"`
	Document  []byte `db:"document"`
}

type rulesetInsertModel struct {
	Version   string `db:"version"`
	IsCurrent bool   `db:"is_current"`
	Document  []byte `db:"document"`
}
