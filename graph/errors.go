package graph

import (
	"errors"

	"go.uber.org/zap"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
)

// clientErrors may be shown to callers verbatim.
var clientErrors = []error{
	bookclub_errors.ErrUnauthorized,
	bookclub_errors.ErrForbidden,
	bookclub_errors.ErrInvalidCredentials,
	bookclub_errors.ErrUserNotFound,
	bookclub_errors.ErrInvalidUserData,
	bookclub_errors.ErrUserConflict,
	bookclub_errors.ErrBookNotFound,
	bookclub_errors.ErrInvalidBookData,
	bookclub_errors.ErrBookConflict,
	bookclub_errors.ErrClubNotFound,
	bookclub_errors.ErrInvalidClubData,
	bookclub_errors.ErrAlreadyMember,
	bookclub_errors.ErrNotMember,
	bookclub_errors.ErrBookNotInClub,
	bookclub_errors.ErrReviewNotFound,
	bookclub_errors.ErrInvalidReviewData,
	bookclub_errors.ErrInvalidRating,
	bookclub_errors.ErrInvalidPagination,
}

// publicError hides infrastructure failures behind ErrInternalServer.
func publicError(operation string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	logger.Error("Resolver failed", zap.String("operation", operation), zap.Error(err))
	return bookclub_errors.ErrInternalServer
}
