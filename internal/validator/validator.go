// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted by request payloads.
const DateLayout = "2006-01-02"

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Money arrives as decimal.Decimal; validate it as a number so that
		// gt/gte tags work.
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

		_ = v.RegisterValidation("cost_type", oneOf("hourly", "material", "fixed", "custom"))
		_ = v.RegisterValidation("phase_status", oneOf("not_started", "in_progress", "completed", "delayed"))
		_ = v.RegisterValidation("payment_status", oneOf("outstanding", "paid"))
		_ = v.RegisterValidation("confidence_level", oneOf("high", "medium", "low"))
		_ = v.RegisterValidation("obligation_status", oneOf("active", "cancelled", "converted_to_actual"))
		_ = v.RegisterValidation("obligation_priority", oneOf("low", "medium", "high", "critical"))
		_ = v.RegisterValidation("curve", oneOf("linear", "s_curve"))
		_ = v.RegisterValidation("calendar_date", validateDate)
	}
}

func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.InexactFloat64()
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		return d.Decimal.InexactFloat64()
	}
	return nil
}

func oneOf(values ...string) validator.Func {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// ParseDate parses a request date. Callers validate the format first.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
