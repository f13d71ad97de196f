package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// SetupValidator configures gin's binding validator: JSON tag names in error
// messages plus a `sucursal` tag for fields that must normalize to a
// non-empty branch key.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("sucursal", func(fl validator.FieldLevel) bool {
		return persistence.Normalize(fl.Field().String()) != ""
	})
}
