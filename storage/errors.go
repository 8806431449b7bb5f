package storage

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// unique_violation, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const uniqueViolation pq.ErrorCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
