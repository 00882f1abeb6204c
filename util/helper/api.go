package helper_util

import (
	"fmt"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination normalises limit and offset for list queries. A zero limit
// selects the default page size.
func Pagination(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, fmt.Errorf("%w: limit=%d offset=%d", bookclub_errors.ErrInvalidPagination, limit, offset)
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, offset, nil
}
