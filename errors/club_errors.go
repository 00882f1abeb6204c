// errors/club_errors.go
package errors

import "errors"

var (
	ErrClubNotFound      = errors.New("club not found")
	ErrInvalidClubData   = errors.New("invalid club data")
	ErrAlreadyMember     = errors.New("user is already a member of the club")
	ErrNotMember         = errors.New("user is not a member of the club")
	ErrBookNotInClub     = errors.New("book is not on the club's list")
	ErrReviewNotFound    = errors.New("review not found")
	ErrInvalidReviewData = errors.New("invalid review data")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)
