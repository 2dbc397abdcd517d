package postgres

import (
	"database/sql"
	"strings"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// isBindParameterMismatch reports whether err is pgbouncer's "wrong number
// of bind parameters" error, which only ever happens when a prepared
// statement survived a pool server switch with a stale parameter count.
// Retrying once against a fresh connection clears it.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "parameters")
}

// isUnnamedPreparedStatementMissing reports whether err is Postgres error
// code 26000 (invalid_sql_statement_name), which pgbouncer surfaces when a
// transaction-pooled connection drops a cached unnamed prepared statement
// out from under a query.
func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") || strings.Contains(msg, "(26000)")
}

// quoteLiteral escapes a string for inline use in a SQL literal, doubling
// any embedded single quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
