// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"payday/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom tags and the decimal types on v.
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	_ = v.RegisterValidation("pay_cycle_type", validatePayCycleType)
	_ = v.RegisterValidation("payment_source", validatePaymentSource)
	_ = v.RegisterValidation("seed_type", validateSeedType)
	_ = v.RegisterValidation("cycle_status", validateCycleStatus)
	_ = v.RegisterValidation("pot_status", validatePotStatus)
	_ = v.RegisterValidation("repayment_status", validateRepaymentStatus)
	_ = v.RegisterValidation("payer", validatePayer)
}

// decimalValue exposes decimals to numeric tags such as gt and lte.
func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}

func validatePayCycleType(fl validator.FieldLevel) bool {
	return models.PayCycleType(fl.Field().String()).Valid()
}

func validatePaymentSource(fl validator.FieldLevel) bool {
	return models.PaymentSource(fl.Field().String()).Valid()
}

func validateSeedType(fl validator.FieldLevel) bool {
	return models.SeedType(fl.Field().String()).Valid()
}

func validateCycleStatus(fl validator.FieldLevel) bool {
	return models.PayCycleStatus(fl.Field().String()).Valid()
}

func validatePotStatus(fl validator.FieldLevel) bool {
	return models.PotStatus(fl.Field().String()).Valid()
}

func validateRepaymentStatus(fl validator.FieldLevel) bool {
	return models.RepaymentStatus(fl.Field().String()).Valid()
}

func validatePayer(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "both", "me", "partner":
		return true
	}
	return false
}
