package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\-\s]{5,19}$`)

var addressTypeRule = validation.In(
	AddressTypeHome, AddressTypeOffice, AddressTypeOther,
).Error("must be one of: home, office, other")

// AddressCreateRequest DTO for creating a new address
// Either Line or the structured fields may be sent; structured fields win.
type AddressCreateRequest struct {
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	Line          string `json:"line"`

	Street     string `json:"street"`
	Ward       string `json:"ward"`
	District   string `json:"district"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`

	AddressType AddressTypeEnum `json:"addressType"`
	Notes       string          `json:"notes"`
	IsDefault   bool            `json:"isDefault"`
}

// AddressUpdateRequest DTO for updating an address; absent fields are left unchanged
type AddressUpdateRequest struct {
	RecipientName *string `json:"recipientName"`
	Phone         *string `json:"phone"`
	Line          *string `json:"line"`

	Street     *string `json:"street"`
	Ward       *string `json:"ward"`
	District   *string `json:"district"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postalCode"`

	AddressType *AddressTypeEnum `json:"addressType"`
	Notes       *string          `json:"notes"`
	IsDefault   *bool            `json:"isDefault"`
}

// AddressView is an address plus its formatted single line
type AddressView struct {
	Address
	Line string `json:"line"`
}

// AddressBookResponse DTO for the list endpoint
type AddressBookResponse struct {
	Addresses []AddressView `json:"addresses"`
	Default   *AddressView  `json:"default,omitempty"`
	Total     int           `json:"total"`
}

// Validate checks the fields required at the API boundary (recipient name, phone).
func (r AddressCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipientName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Phone, validation.Required, validation.Match(phoneRegex)),
		validation.Field(&r.AddressType, addressTypeRule),
		validation.Field(&r.Notes, validation.Length(0, 500)),
	)
}

func (r AddressCreateRequest) ToInput() AddressInput {
	return AddressInput{
		RecipientName: strings.TrimSpace(r.RecipientName),
		Phone:         strings.TrimSpace(r.Phone),
		Line:          strings.TrimSpace(r.Line),
		Street:        strings.TrimSpace(r.Street),
		Ward:          strings.TrimSpace(r.Ward),
		District:      strings.TrimSpace(r.District),
		City:          strings.TrimSpace(r.City),
		Country:       strings.TrimSpace(r.Country),
		PostalCode:    strings.TrimSpace(r.PostalCode),
		AddressType:   r.AddressType,
		Notes:         strings.TrimSpace(r.Notes),
		IsDefault:     r.IsDefault,
	}
}

// Validate rejects blanking a required field; omitted fields are fine.
func (r AddressUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipientName, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Match(phoneRegex)),
		validation.Field(&r.AddressType, addressTypeRule),
		validation.Field(&r.Notes, validation.Length(0, 500)),
	)
}

// ToPatch converts the request into a patch. A line expands into the five location
// components; explicit component fields still win.
func (r AddressUpdateRequest) ToPatch() AddressPatch {
	p := AddressPatch{
		RecipientName: trimmed(r.RecipientName),
		Phone:         trimmed(r.Phone),
		PostalCode:    trimmed(r.PostalCode),
		AddressType:   r.AddressType,
		Notes:         trimmed(r.Notes),
		IsDefault:     r.IsDefault,
	}

	if r.Line != nil && strings.TrimSpace(*r.Line) != "" {
		parts := ParseLine(*r.Line)
		p.Street = &parts.Street
		p.Ward = &parts.Ward
		p.District = &parts.District
		p.City = &parts.City
		p.Country = &parts.Country
	}

	if v := trimmed(r.Street); v != nil {
		p.Street = v
	}
	if v := trimmed(r.Ward); v != nil {
		p.Ward = v
	}
	if v := trimmed(r.District); v != nil {
		p.District = v
	}
	if v := trimmed(r.City); v != nil {
		p.City = v
	}
	if v := trimmed(r.Country); v != nil {
		p.Country = v
	}

	return p
}

// NewAddressView pairs an address with its formatted line
func NewAddressView(a Address) AddressView {
	return AddressView{Address: a, Line: a.Line()}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
