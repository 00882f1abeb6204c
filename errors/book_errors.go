// errors/book_errors.go
package errors

import "errors"

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrInvalidBookData     = errors.New("invalid book data")
	ErrBookConflict        = errors.New("book conflict")
	ErrUpstreamUnavailable = errors.New("bestseller service unavailable")
	ErrMalformedResponse   = errors.New("malformed bestseller response")
	ErrInvalidListName     = errors.New("invalid list name")
)
