// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"github.com/jmoiron/sqlx"

	"github.com/darslyhq/darsly/core"
)

// queryer is what a repository needs to run sqlx helpers on. Both *sqlx.DB
// and *sqlx.Tx satisfy it.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// getExec picks the executor for a query: the service-provided override when
// it is sqlx-aware (an *sqlx.Tx of an ongoing transaction), the repository's
// own handle otherwise.
func getExec(db *sqlx.DB, svcExec []core.DBExecutor) queryer {
	if len(svcExec) > 0 {
		if q, ok := svcExec[0].(queryer); ok {
			return q
		}
	}
	return db
}
