package http

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	commonerrors "github.com/hirehub/backend/internal/common/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct runs the struct's `validate` tags and folds the first
// failing field into ErrInvalidPayload.
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return commonerrors.ErrInvalidPayload.WithCause(
			fmt.Errorf("field %s failed %s", strings.ToLower(fe.Field()), fe.Tag()),
		)
	}
	return commonerrors.ErrInvalidPayload.WithCause(err)
}

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrInvalidPayload.WithCause(errors.New("empty id"))
	}
	if _, err := uuid.Parse(s); err != nil {
		return commonerrors.ErrInvalidPayload.WithCause(err)
	}
	return nil
}
