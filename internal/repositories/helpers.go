package repositories

import (
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
)

// int64Array adapts an id slice to a Postgres array parameter.
func int64Array(ids []int64) driver.Valuer {
	return pq.Array(ids)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The lead code generator relies on this to retry after a
// concurrent insert grabbed the same sequence number.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
