package form

import "github.com/pestpro/pestpro-api/internal/models"

// FromQuoteRequest maps a /api/send-quote body onto Data
func FromQuoteRequest(r *models.QuoteRequest) Data {
	d := Data{
		Name:         r.Name,
		Phone:        r.Phone,
		Address:      r.Address,
		Email:        r.Email,
		PropertyType: r.PropertyType,
		PropertySize: r.PropertySize,
		Message:      r.Message,
	}
	addPests(&d, r.PestTypes)
	return d
}

// FromContactRequest maps a /api/contact body onto Data
func FromContactRequest(r *models.ContactRequest) Data {
	return Data{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
		Service: r.Service,
		Message: r.Message,
	}
}

// FromHomeQuoteRequest maps a /api/home-quote body onto Data
func FromHomeQuoteRequest(r *models.HomeQuoteRequest) Data {
	d := Data{
		Name:         r.Name,
		Phone:        r.Phone,
		Address:      r.StreetAddress,
		Email:        r.Email,
		PropertyType: r.PropertyType,
		PropertySize: r.PropertySize,
	}
	addPests(&d, r.PestTypes)
	return d
}

// addPests copies request tags through AddPest so blank and repeated tags
// never reach validation or the CRM.
func addPests(d *Data, tags []string) {
	for _, tag := range tags {
		d.AddPest(tag)
	}
}

// RequestBody builds the JSON body the route for kind expects
func RequestBody(kind Kind, d Data) any {
	switch kind {
	case KindContact:
		return &models.ContactRequest{
			Name:    d.Name,
			Phone:   d.Phone,
			Email:   d.Email,
			Address: d.Address,
			Service: d.Service,
			Message: d.Message,
		}
	case KindHomeQuote:
		return &models.HomeQuoteRequest{
			Name:          d.Name,
			Phone:         d.Phone,
			StreetAddress: d.Address,
			Email:         d.Email,
			PestTypes:     d.PestTypes,
			PropertyType:  d.PropertyType,
			PropertySize:  d.PropertySize,
		}
	default:
		return &models.QuoteRequest{
			Name:         d.Name,
			Phone:        d.Phone,
			Address:      d.Address,
			Email:        d.Email,
			PestTypes:    d.PestTypes,
			PropertyType: d.PropertyType,
			PropertySize: d.PropertySize,
			Message:      d.Message,
		}
	}
}
