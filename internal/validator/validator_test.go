package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spsina/bookStore/internal/validator"
)

func TestIsPhoneNumber(t *testing.T) {
	valid := []string{"09121234567", "9121234567", "+989121234567"}
	invalid := []string{"", "0912123456", "08121234567", "+98912123456a", "0098 912 123 4567", "+9809121234567"}

	for _, s := range valid {
		assert.True(t, validator.IsPhoneNumber(s), s)
	}
	for _, s := range invalid {
		assert.False(t, validator.IsPhoneNumber(s), s)
	}
}

type line struct {
	Book  int64 `json:"book" validate:"required,gt=0"`
	Count int64 `json:"count" validate:"required,min=1"`
}

type req struct {
	Phone string `json:"phone_number" validate:"required,ir_phone"`
	Items []line `json:"items" validate:"required,min=1,dive"`
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	v := validator.New()

	err := v.Validate(req{Phone: "123", Items: []line{{Book: 1, Count: 0}}})
	require.Error(t, err)

	fields := validator.FieldErrors(err)
	assert.Equal(t, []string{"Enter a valid phone number"}, fields["phone_number"])
	assert.Contains(t, fields, "items[0].count")
}

func TestValidatePasses(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.Validate(req{Phone: "09121234567", Items: []line{{Book: 1, Count: 2}}}))
}

func TestFieldErrorsNonValidationError(t *testing.T) {
	fields := validator.FieldErrors(assert.AnError)
	assert.Equal(t, []string{assert.AnError.Error()}, fields["non_field_errors"])
}
