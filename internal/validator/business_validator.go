package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

func registerForumRules(v *validator.Validate) {
	// Rejects strings that are empty after trimming.
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
