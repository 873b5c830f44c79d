// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"byapar/internal/nepali"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("nepali_phone", validateNepaliPhone)
	}
}

func validateNepaliPhone(fl validator.FieldLevel) bool {
	return nepali.IsValidPhoneNumber(fl.Field().String())
}
