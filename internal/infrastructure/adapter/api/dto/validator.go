package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var refIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RegisterValidators installs the custom binding tags used by the request DTOs
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("refid", validateRefID)
	}
}

func validateRefID(fl validator.FieldLevel) bool {
	return refIDPattern.MatchString(fl.Field().String())
}
