// util/validation_util.go

package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ValidationUtil{validate: v}
}

// check validates s and wraps the first failure in sentinel.
func (v *ValidationUtil) check(s interface{}, sentinel error) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q", sentinel, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

func (v *ValidationUtil) ValidateSignup(req model.SignupRequest) error {
	return v.check(req, bookclub_errors.ErrInvalidUserData)
}

func (v *ValidationUtil) ValidateLogin(req model.LoginRequest) error {
	return v.check(req, bookclub_errors.ErrInvalidUserData)
}

func (v *ValidationUtil) ValidateBook(book model.Book) error {
	return v.check(book, bookclub_errors.ErrInvalidBookData)
}

func (v *ValidationUtil) ValidateClub(club model.Club) error {
	return v.check(club, bookclub_errors.ErrInvalidClubData)
}

func (v *ValidationUtil) ValidateReview(review model.Review) error {
	return v.check(review, bookclub_errors.ErrInvalidReviewData)
}

func (v *ValidationUtil) ValidateRating(rating model.Rating) error {
	if rating.Value < 1 || rating.Value > 5 {
		return fmt.Errorf("%w: value must be between 1 and 5, got %d", bookclub_errors.ErrInvalidRating, rating.Value)
	}
	return v.check(rating, bookclub_errors.ErrInvalidRating)
}
