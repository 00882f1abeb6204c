// errors/client_errors.go
package errors

import "errors"

var (
	ErrCanceled       = errors.New("request canceled")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrNotJSONArray   = errors.New("response is not a JSON array")
	ErrGraphQLRequest = errors.New("graphql request failed")
)
