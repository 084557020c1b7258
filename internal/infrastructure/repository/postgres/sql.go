package postgres

import (
	"database/sql"
	"errors"

	"github.com/rosterwire/contest-engine/internal/platform/retry"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// markTransient tags driver failures so the retrying decorators know the
// call is worth repeating.
func markTransient(err error) error {
	return retry.MarkTransient(err)
}
