package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validator: %v", err))
	}
	return v
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// todoRequest is the body of POST and PUT.
type todoRequest struct {
	Title     string `json:"title" validate:"notblank,max=1000"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId" validate:"omitempty,min=1"`
}

// patchRequest is the body of PATCH. Absent fields are left unchanged.
type patchRequest struct {
	Title     *string `json:"title" validate:"omitempty,notblank,max=1000"`
	Completed *bool   `json:"completed"`
}

// validationMessage flattens the first validation failure for the
// response body.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return "validation failed"
}
