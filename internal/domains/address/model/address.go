package model

import (
	"time"
)

type AddressTypeEnum string

const (
	AddressTypeHome   AddressTypeEnum = "home"
	AddressTypeOffice AddressTypeEnum = "office"
	AddressTypeOther  AddressTypeEnum = "other"
)

func (a AddressTypeEnum) IsValid() bool {
	switch a {
	case AddressTypeHome, AddressTypeOffice, AddressTypeOther:
		return true
	}
	return false
}
func (a AddressTypeEnum) String() string {
	return string(a)
}

// Address là một địa chỉ giao hàng nằm trong mảng `addresses` của user document.
// Tag json/bson/firestore dùng chung một tên field để mọi driver đọc ghi cùng một shape.
type Address struct {
	ID string `json:"id" bson:"id" firestore:"id"`

	RecipientName string `json:"recipientName" bson:"recipientName" firestore:"recipientName"`
	Phone         string `json:"phone" bson:"phone" firestore:"phone"`

	Street     string `json:"street,omitempty" bson:"street,omitempty" firestore:"street,omitempty"`
	Ward       string `json:"ward,omitempty" bson:"ward,omitempty" firestore:"ward,omitempty"`
	District   string `json:"district,omitempty" bson:"district,omitempty" firestore:"district,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty" firestore:"city,omitempty"`
	Country    string `json:"country,omitempty" bson:"country,omitempty" firestore:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty" firestore:"postalCode,omitempty"`

	AddressType AddressTypeEnum `json:"addressType,omitempty" bson:"addressType,omitempty" firestore:"addressType,omitempty"`
	Notes       string          `json:"notes,omitempty" bson:"notes,omitempty" firestore:"notes,omitempty"`

	IsDefault bool      `json:"isDefault" bson:"isDefault" firestore:"isDefault"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
}

// AddressBook is the user document as the gateway sees it.
// Revision is bumped by every successful write; a missing field reads as 0.
type AddressBook struct {
	Key       string
	UserID    string
	Addresses []Address
	Revision  int64
}

// AddressInput carries the caller-supplied fields of a new address.
// Line, when set, is parsed first and explicit structured fields override its components.
type AddressInput struct {
	RecipientName string
	Phone         string
	Line          string

	Street     string
	Ward       string
	District   string
	City       string
	Country    string
	PostalCode string

	AddressType AddressTypeEnum
	Notes       string
	IsDefault   bool
}

// AddressPatch is a shallow partial update: nil means "keep the stored value".
type AddressPatch struct {
	RecipientName *string
	Phone         *string

	Street     *string
	Ward       *string
	District   *string
	City       *string
	Country    *string
	PostalCode *string

	AddressType *AddressTypeEnum
	Notes       *string
	IsDefault   *bool
}

// NewAddress builds the stored record for an input. Default flag is decided by the caller.
// Country falls back to DefaultCountry whether or not the input came as a line.
func NewAddress(id string, in AddressInput, createdAt time.Time) Address {
	addr := Address{
		ID:            id,
		RecipientName: in.RecipientName,
		Phone:         in.Phone,
		AddressType:   in.AddressType,
		Notes:         in.Notes,
		IsDefault:     in.IsDefault,
		CreatedAt:     createdAt,
	}

	if in.Line != "" {
		parts := ParseLine(in.Line)
		addr.Street = parts.Street
		addr.Ward = parts.Ward
		addr.District = parts.District
		addr.City = parts.City
		addr.Country = parts.Country
	}

	addr.Street = getOrDefault(in.Street, addr.Street)
	addr.Ward = getOrDefault(in.Ward, addr.Ward)
	addr.District = getOrDefault(in.District, addr.District)
	addr.City = getOrDefault(in.City, addr.City)
	addr.Country = getOrDefault(in.Country, addr.Country)
	if addr.Country == "" {
		addr.Country = DefaultCountry
	}
	addr.PostalCode = in.PostalCode

	return addr
}

// ApplyPatch merges a patch into an existing address. ID and CreatedAt are never touched.
func ApplyPatch(existing Address, p AddressPatch) Address {
	merged := existing

	setString(&merged.RecipientName, p.RecipientName)
	setString(&merged.Phone, p.Phone)
	setString(&merged.Street, p.Street)
	setString(&merged.Ward, p.Ward)
	setString(&merged.District, p.District)
	setString(&merged.City, p.City)
	setString(&merged.Country, p.Country)
	setString(&merged.PostalCode, p.PostalCode)
	setString(&merged.Notes, p.Notes)

	if p.AddressType != nil {
		merged.AddressType = *p.AddressType
	}
	if p.IsDefault != nil {
		merged.IsDefault = *p.IsDefault
	}

	return merged
}

// IsEmpty reports whether the patch would change nothing.
func (p AddressPatch) IsEmpty() bool {
	return p.RecipientName == nil && p.Phone == nil &&
		p.Street == nil && p.Ward == nil && p.District == nil && p.City == nil &&
		p.Country == nil && p.PostalCode == nil &&
		p.AddressType == nil && p.Notes == nil && p.IsDefault == nil
}

// CloneAddresses copies a list so callers can mutate it without touching cached state.
func CloneAddresses(src []Address) []Address {
	out := make([]Address, len(src))
	copy(out, src)
	return out
}

// FindDefault returns the first address flagged as default.
func FindDefault(addrs []Address) (Address, bool) {
	for _, a := range addrs {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

// IndexOf returns the position of the address with id, or -1.
func IndexOf(addrs []Address, id string) int {
	for i, a := range addrs {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// CountDefaults counts entries flagged as default.
func CountDefaults(addrs []Address) int {
	n := 0
	for _, a := range addrs {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func getOrDefault(newVal, existingVal string) string {
	if newVal == "" {
		return existingVal
	}
	return newVal
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
