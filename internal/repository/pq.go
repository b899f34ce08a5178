package repository

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsDuplicateKey reports whether err is a PostgreSQL unique or primary key
// violation. The cascade uses it to distinguish a document that repeats a
// composite key (same year/career or same course twice) from other write
// failures.
func IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
