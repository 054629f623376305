package postgres

import (
	"errors"
	"strconv"

	"github.com/lib/pq"
)

// placeholder renders the numbered query placeholder $n
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// isUniqueViolation checks for the PostgreSQL unique constraint error code
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 23505 = unique_violation
		return pqErr.Code == "23505"
	}
	return false
}
