package validation

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodeRx = regexp.MustCompile(`^[A-Z]{3}$`)

// RegisterCustomValidators attaches domain validation rules to gin's
// binding engine. Must run before any request binding.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	// ISO 4217 alpha code shape: three uppercase letters.
	return v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		return currencyCodeRx.MatchString(fl.Field().String())
	})
}
