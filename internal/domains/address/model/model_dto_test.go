package model

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressCreateRequestValidate(t *testing.T) {
	valid := AddressCreateRequest{
		RecipientName: "Lan",
		Phone:         "+84 901 234 567",
		Line:          "12 Main St, Ward 5, District 1, HCMC",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	tests := []struct {
		name   string
		mutate func(r *AddressCreateRequest)
		field  string
	}{
		{"missing recipient", func(r *AddressCreateRequest) { r.RecipientName = "" }, "recipientName"},
		{"missing phone", func(r *AddressCreateRequest) { r.Phone = "" }, "phone"},
		{"malformed phone", func(r *AddressCreateRequest) { r.Phone = "call me" }, "phone"},
		{"unknown address type", func(r *AddressCreateRequest) { r.AddressType = "castle" }, "addressType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)

			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestAddressCreateRequestToInput(t *testing.T) {
	in := AddressCreateRequest{
		RecipientName: "  Lan ",
		Phone:         "0901234567",
		Line:          " 12 Main St, HCMC ",
		City:          " Hanoi ",
		IsDefault:     true,
	}.ToInput()

	assert.Equal(t, "Lan", in.RecipientName)
	assert.Equal(t, "12 Main St, HCMC", in.Line)
	assert.Equal(t, "Hanoi", in.City)
	assert.True(t, in.IsDefault)
}

func TestAddressUpdateRequest(t *testing.T) {
	t.Run("blanking recipient is rejected", func(t *testing.T) {
		err := AddressUpdateRequest{RecipientName: strPtr("")}.Validate()
		require.Error(t, err)
	})

	t.Run("omitted fields are fine", func(t *testing.T) {
		assert.NoError(t, AddressUpdateRequest{Notes: strPtr("gate code 42")}.Validate())
	})

	t.Run("line expands and explicit components win", func(t *testing.T) {
		patch := AddressUpdateRequest{
			Line: strPtr("1 New Rd, Ward 2, District 3, Hanoi"),
			City: strPtr("Hai Phong"),
		}.ToPatch()

		require.NotNil(t, patch.Street)
		assert.Equal(t, "1 New Rd", *patch.Street)
		assert.Equal(t, "Ward 2", *patch.Ward)
		assert.Equal(t, "Hai Phong", *patch.City)
		assert.Equal(t, DefaultCountry, *patch.Country)
		assert.Nil(t, patch.RecipientName)
	})

	t.Run("no fields gives an empty patch", func(t *testing.T) {
		assert.True(t, AddressUpdateRequest{}.ToPatch().IsEmpty())
	})
}

func TestNewAddressView(t *testing.T) {
	view := NewAddressView(Address{ID: "a1", Street: "12 Main St", City: "HCMC"})
	assert.Equal(t, "a1", view.ID)
	assert.Equal(t, "12 Main St, HCMC", view.Line)
}
