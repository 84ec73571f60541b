// Package form holds the quote form record, its validation rules and the
// controller that drives one form instance from editing to a submission
// result.
package form

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies which lead form a record belongs to. Each kind has its own
// set of required fields.
type Kind string

const (
	KindQuote     Kind = "quote"
	KindContact   Kind = "contact"
	KindHomeQuote Kind = "home-quote"
)

// Valid reports whether k is a known form kind
func (k Kind) Valid() bool {
	switch k {
	case KindQuote, KindContact, KindHomeQuote:
		return true
	}
	return false
}

// Field names as they appear in JSON bodies, query strings and error maps.
const (
	FieldName          = "name"
	FieldPhone         = "phone"
	FieldAddress       = "address"
	FieldStreetAddress = "streetAddress"
	FieldEmail         = "email"
	FieldPestTypes     = "pestTypes"
	FieldPropertyType  = "propertyType"
	FieldPropertySize  = "propertySize"
	FieldService       = "service"
	FieldMessage       = "message"
)

// Property type and size tags offered by the forms.
var (
	PropertyTypes = []string{"apartment", "independent-house", "villa", "commercial", "office"}
	PropertySizes = []string{"1bhk", "2bhk", "3bhk", "4bhk+", "small", "medium", "large"}
)

// Data is one form's field values. Phone is kept as typed; PestTypes has set
// semantics (no duplicates, order carries no meaning).
type Data struct {
	Name         string   `json:"name,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Address      string   `json:"address,omitempty"`
	Email        string   `json:"email,omitempty"`
	PestTypes    []string `json:"pestTypes,omitempty"`
	PropertyType string   `json:"propertyType,omitempty"`
	PropertySize string   `json:"propertySize,omitempty"`
	Service      string   `json:"service,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// Clone returns a deep copy of d
func (d Data) Clone() Data {
	d.PestTypes = slices.Clone(d.PestTypes)
	return d
}

// IsZero reports whether no field has a value
func (d Data) IsZero() bool {
	return d.Name == "" && d.Phone == "" && d.Address == "" && d.Email == "" &&
		len(d.PestTypes) == 0 && d.PropertyType == "" && d.PropertySize == "" &&
		d.Service == "" && d.Message == ""
}

// Set assigns one scalar field by its JSON name. streetAddress is an alias
// for address. PestTypes is not a scalar; use TogglePest or AddPest.
func (d *Data) Set(field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldPhone:
		d.Phone = value
	case FieldAddress, FieldStreetAddress:
		d.Address = value
	case FieldEmail:
		d.Email = value
	case FieldPropertyType:
		d.PropertyType = value
	case FieldPropertySize:
		d.PropertySize = value
	case FieldService:
		d.Service = value
	case FieldMessage:
		d.Message = value
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	return nil
}

// HasPest reports whether tag is selected
func (d Data) HasPest(tag string) bool {
	return slices.Contains(d.PestTypes, tag)
}

// AddPest selects tag if it is not already selected
func (d *Data) AddPest(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || d.HasPest(tag) {
		return
	}
	d.PestTypes = append(d.PestTypes, tag)
}

// TogglePest selects tag, or deselects it if already selected
func (d *Data) TogglePest(tag string) {
	if i := slices.Index(d.PestTypes, tag); i >= 0 {
		d.PestTypes = slices.Delete(d.PestTypes, i, i+1)
		return
	}
	d.AddPest(tag)
}

// Merge returns base with every non-empty field of override applied on top.
func Merge(base, override Data) Data {
	out := base.Clone()
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&out.Name, override.Name)
	pick(&out.Phone, override.Phone)
	pick(&out.Address, override.Address)
	pick(&out.Email, override.Email)
	pick(&out.PropertyType, override.PropertyType)
	pick(&out.PropertySize, override.PropertySize)
	pick(&out.Service, override.Service)
	pick(&out.Message, override.Message)
	if len(override.PestTypes) > 0 {
		out.PestTypes = slices.Clone(override.PestTypes)
	}
	return out
}

// DigitsOnly strips every non-digit character from s
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
