package form

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the message shown next to it. An empty map
// means the form is valid.
type Errors map[string]string

// Valid reports whether there are no errors
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Any Unicode space ends a part, matching what a browser's \s rejects.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

var fieldLabels = map[string]string{
	FieldName:          "Name",
	FieldPhone:         "Phone number",
	FieldAddress:       "Address",
	FieldStreetAddress: "Street address",
	FieldPropertyType:  "Property type",
	FieldPropertySize:  "Property size",
	FieldService:       "Service",
}

// Per-kind views of Data. Only the tags differ: they decide which fields a
// given form requires.

type quoteView struct {
	Name         string   `json:"name" validate:"notblank"`
	Phone        string   `json:"phone" validate:"notblank,phone10"`
	Address      string   `json:"address" validate:"notblank"`
	Email        string   `json:"email" validate:"omitempty,emailshape"`
	PestTypes    []string `json:"pestTypes" validate:"min=1,unique"`
	PropertyType string   `json:"propertyType" validate:"omitempty,oneof=apartment independent-house villa commercial office"`
	PropertySize string   `json:"propertySize" validate:"omitempty,oneof=1bhk 2bhk 3bhk 4bhk+ small medium large"`
}

type contactView struct {
	Name  string `json:"name" validate:"notblank"`
	Phone string `json:"phone" validate:"notblank,phone10"`
	Email string `json:"email" validate:"omitempty,emailshape"`
}

type homeQuoteView struct {
	Phone         string   `json:"phone" validate:"notblank,phone10"`
	StreetAddress string   `json:"streetAddress" validate:"notblank"`
	Email         string   `json:"email" validate:"omitempty,emailshape"`
	PestTypes     []string `json:"pestTypes" validate:"min=1,unique"`
	PropertyType  string   `json:"propertyType" validate:"required,oneof=apartment independent-house villa commercial office"`
	PropertySize  string   `json:"propertySize" validate:"required,oneof=1bhk 2bhk 3bhk 4bhk+ small medium large"`
}

var rules = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "phone10", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// IsValidPhone reports whether s has exactly 10 digits once non-digits are stripped
func IsValidPhone(s string) bool {
	return len(DigitsOnly(s)) == 10
}

// IsValidEmail reports whether s has the local@domain.tld shape
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate checks d against the rules of the given form kind. Every field is
// checked so one submit attempt reports all problems. Unknown kinds use the
// full quote rules.
func Validate(kind Kind, d Data) Errors {
	var view any
	switch kind {
	case KindContact:
		view = contactView{Name: d.Name, Phone: d.Phone, Email: d.Email}
	case KindHomeQuote:
		view = homeQuoteView{
			Phone:         d.Phone,
			StreetAddress: d.Address,
			Email:         d.Email,
			PestTypes:     selectedPests(d.PestTypes),
			PropertyType:  d.PropertyType,
			PropertySize:  d.PropertySize,
		}
	default:
		view = quoteView{
			Name:         d.Name,
			Phone:        d.Phone,
			Address:      d.Address,
			Email:        d.Email,
			PestTypes:    selectedPests(d.PestTypes),
			PropertyType: d.PropertyType,
			PropertySize: d.PropertySize,
		}
	}

	errs := Errors{}
	err := rules.Struct(view)
	if err == nil {
		return errs
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError means a programming error in the views above.
		panic(err)
	}
	for _, fe := range fieldErrors {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

// selectedPests drops blank tags, which do not count as a selection
func selectedPests(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "notblank", "required":
		return label(field) + " is required"
	case "phone10":
		return "Please enter a valid 10-digit phone number"
	case "emailshape":
		return "Please enter a valid email address"
	case "min":
		if field == FieldPestTypes {
			return "Please select at least one pest type"
		}
		return label(field) + " must have at least " + fe.Param() + " entries"
	case "unique":
		return "Pest types must be unique"
	case "oneof":
		return "Please select a valid " + strings.ToLower(label(field))
	default:
		return label(field) + " is invalid"
	}
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}
