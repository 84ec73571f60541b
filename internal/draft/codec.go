// Package draft moves form values between page visits: as a query string on
// the destination URL and as a single-slot persisted draft.
package draft

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pestpro/pestpro-api/internal/form"
)

const listSeparator = ","

// Encode renders d as a query string. Scalars use their JSON field names,
// pestTypes is a comma-joined list and empty fields are left out. Keys are
// sorted so the same data always encodes the same way.
func Encode(d form.Data) string {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(form.FieldName, d.Name)
	set(form.FieldPhone, d.Phone)
	set(form.FieldAddress, d.Address)
	set(form.FieldEmail, d.Email)
	set(form.FieldPropertyType, d.PropertyType)
	set(form.FieldPropertySize, d.PropertySize)
	set(form.FieldService, d.Service)
	set(form.FieldMessage, d.Message)
	if len(d.PestTypes) > 0 {
		v.Set(form.FieldPestTypes, strings.Join(d.PestTypes, listSeparator))
	}
	return v.Encode()
}

// Decode parses a query string produced by Encode or typed by hand. A leading
// '?' is allowed. pestTypes may be comma-joined, repeated, or both; duplicates
// are dropped. streetAddress is read as address. Unknown keys are ignored.
func Decode(query string) (form.Data, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return form.Data{}, fmt.Errorf("failed to parse form query: %w", err)
	}

	var d form.Data
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if key == form.FieldPestTypes {
			for _, raw := range vals {
				for _, tag := range strings.Split(raw, listSeparator) {
					d.AddPest(tag)
				}
			}
			continue
		}
		value := vals[len(vals)-1]
		if value == "" {
			continue
		}
		// Unknown keys fail Set and are skipped.
		_ = d.Set(key, value)
	}

	// streetAddress and address both land in Address; prefer the canonical key
	// so map iteration order never decides.
	if a := values.Get(form.FieldAddress); a != "" {
		d.Address = a
	}
	return d, nil
}
