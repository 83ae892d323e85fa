package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a struct against its `validate` tags.
func Validate(obj interface{}) error {
	if err := validate.Struct(obj); err != nil {
		var errs validator.ValidationErrors
		if ok := asValidationErrors(err, &errs); ok && len(errs) > 0 {
			fe := errs[0]
			return fmt.Errorf("field %s failed validation on %s", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}

// Var validates a single value against a rule set, e.g. "min=1,max=5".
func Var(value interface{}, rules string) error {
	return validate.Var(value, rules)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok {
		*target = errs
		return true
	}
	return false
}
