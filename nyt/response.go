package nyt

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// ListResponse is the body of lists/current/{list}.json.
type ListResponse struct {
	Status     string       `json:"status"`
	NumResults int          `json:"num_results"`
	Results    *ListResults `json:"results" validate:"required"`
}

type ListResults struct {
	ListName        string             `json:"list_name"`
	ListNameEncoded string             `json:"list_name_encoded"`
	PublishedDate   string             `json:"published_date"`
	Books           []model.Bestseller `json:"books" validate:"required,min=1,dive"`
}

// ShapeError describes why an upstream body does not have the expected shape.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape at %s: %s", e.Field, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return bookclub_errors.ErrMalformedResponse
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ParseListResponse decodes body and checks that it carries a non-empty
// results.books array. Any mismatch is returned as a *ShapeError.
func ParseListResponse(body []byte) (*ListResults, error) {
	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ShapeError{Field: "$", Reason: err.Error()}
	}

	if err := validate.Struct(&resp); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return nil, &ShapeError{
				Field:  trimRoot(first.Namespace()),
				Reason: describe(first),
			}
		}
		return nil, &ShapeError{Field: "$", Reason: err.Error()}
	}
	return resp.Results, nil
}

func trimRoot(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is missing"
	case "min":
		return fmt.Sprintf("must have at least %s element(s)", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
