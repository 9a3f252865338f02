package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type seedRequest struct {
	Type          string              `validate:"required,seed_type"`
	PaymentSource string              `validate:"required,payment_source"`
	Payer         string              `validate:"omitempty,payer"`
	Amount        decimal.Decimal     `validate:"gt=0"`
	SplitRatio    decimal.NullDecimal `validate:"omitempty,gte=0,lte=1"`
}

type householdRequest struct {
	PayCycleType string  `validate:"required,pay_cycle_type"`
	Status       *string `validate:"omitempty,cycle_status"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestSeedTags(t *testing.T) {
	v := newValidate()

	valid := seedRequest{
		Type:          "need",
		PaymentSource: "joint",
		Payer:         "me",
		Amount:        decimal.RequireFromString("12.50"),
		SplitRatio:    decimal.NewNullDecimal(decimal.RequireFromString("0.6")),
	}
	assert.NoError(t, v.Struct(valid))

	tests := []struct {
		name   string
		modify func(r *seedRequest)
	}{
		{"unknown_type", func(r *seedRequest) { r.Type = "luxury" }},
		{"unknown_source", func(r *seedRequest) { r.PaymentSource = "bank" }},
		{"unknown_payer", func(r *seedRequest) { r.Payer = "joint" }},
		{"zero_amount", func(r *seedRequest) { r.Amount = decimal.Zero }},
		{"ratio_above_one", func(r *seedRequest) { r.SplitRatio = decimal.NewNullDecimal(decimal.NewFromInt(2)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.modify(&r)
			assert.Error(t, v.Struct(r))
		})
	}

	t.Run("null_ratio_skipped", func(t *testing.T) {
		r := valid
		r.SplitRatio = decimal.NullDecimal{}
		assert.NoError(t, v.Struct(r))
	})
}

func TestHouseholdTags(t *testing.T) {
	v := newValidate()
	draft := "draft"
	done := "done"

	assert.NoError(t, v.Struct(householdRequest{PayCycleType: "every_4_weeks", Status: &draft}))
	assert.Error(t, v.Struct(householdRequest{PayCycleType: "weekly"}))
	assert.Error(t, v.Struct(householdRequest{PayCycleType: "last_working_day", Status: &done}))
}
