package models

// QuoteRequest is the body of POST /api/send-quote (the full /quote form)
type QuoteRequest struct {
	Name         string   `json:"name"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Email        string   `json:"email"`
	PestTypes    []string `json:"pestTypes"`
	PropertyType string   `json:"propertyType"`
	PropertySize string   `json:"propertySize"`
	Message      string   `json:"message"`
}

// ContactRequest is the body of POST /api/contact
type ContactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// HomeQuoteRequest is the body of POST /api/home-quote (the short hero form)
type HomeQuoteRequest struct {
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	StreetAddress string   `json:"streetAddress"`
	Email         string   `json:"email"`
	PestTypes     []string `json:"pestTypes"`
	PropertyType  string   `json:"propertyType"`
	PropertySize  string   `json:"propertySize"`
}
