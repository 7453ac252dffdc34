package serverutils

import (
	"fmt"
	"strings"

	"notehub-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and folds failures into a single
// ValidationError, so the check happens before any service call.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Validation("invalid request body")
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", field))
		case "email":
			problems = append(problems, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			problems = append(problems, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			problems = append(problems, fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid", field))
		}
	}

	return apperror.Validation(strings.Join(problems, "; "))
}
