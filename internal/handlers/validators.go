package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// decimalGreaterThanZero backs the dgt0 binding tag on money fields.
func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return v.IsPositive()
	case *decimal.Decimal:
		return v != nil && v.IsPositive()
	default:
		return false
	}
}

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("dgt0", decimalGreaterThanZero)
		}
	})
}
