package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/pkg/crm"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultCity is used when no known city appears in the address
	DefaultCity = "Mumbai"
	// DefaultServiceInterest is used when neither pests nor a service were chosen
	DefaultServiceInterest = "General Pest Control"
	// AnonymousName stands in for the optional name on the home page form
	AnonymousName = "Website Visitor"
)

// PestLabels maps pest tags to the labels the CRM and inbox show
var PestLabels = map[string]string{
	"cockroaches": "🪳 Cockroaches",
	"termites":    "🐛 Termites",
	"bedbugs":     "🛏️ Bed Bugs",
	"mosquitoes":  "🦟 Mosquitoes",
	"rodents":     "🐀 Rodents",
	"ants":        "🐜 Ants",
	"spiders":     "🕷️ Spiders",
	"lizards":     "🦎 Lizards",
	"flies":       "🪰 Flies",
	"general":     "🏠 General Pest Control",
}

type cityAlias struct {
	match string
	city  string
}

// Longest match first so "Navi Mumbai" is not read as "Mumbai".
var cityAliases = sortedAliases([]cityAlias{
	{"navi mumbai", "Navi Mumbai"},
	{"mumbai", "Mumbai"},
	{"thane", "Thane"},
	{"pune", "Pune"},
	{"delhi", "Delhi"},
	{"gurgaon", "Gurgaon"},
	{"noida", "Noida"},
	{"bengaluru", "Bengaluru"},
	{"bangalore", "Bengaluru"},
	{"hyderabad", "Hyderabad"},
	{"chennai", "Chennai"},
	{"kolkata", "Kolkata"},
	{"ahmedabad", "Ahmedabad"},
})

func sortedAliases(aliases []cityAlias) []cityAlias {
	sort.SliceStable(aliases, func(i, j int) bool {
		return len(aliases[i].match) > len(aliases[j].match)
	})
	return aliases
}

var formTitles = map[form.Kind]string{
	form.KindQuote:     "Quote request",
	form.KindContact:   "Contact request",
	form.KindHomeQuote: "Home page quote request",
}

// InferCity returns the first known city named in address, ignoring case,
// or DefaultCity.
func InferCity(address string) string {
	folded := cases.Fold().String(address)
	for _, a := range cityAliases {
		if strings.Contains(folded, a.match) {
			return a.city
		}
	}
	return DefaultCity
}

// ServiceInterest describes what the customer wants treated
func ServiceInterest(pests []string, service string) string {
	switch len(pests) {
	case 0:
	case 1:
		return pestLabel(pests[0])
	default:
		labels := make([]string, len(pests))
		for i, p := range pests {
			labels[i] = pestLabel(p)
		}
		return "Multiple Pests: " + strings.Join(labels, ", ")
	}

	if service = strings.TrimSpace(service); service != "" {
		return pestLabel(service)
	}
	return DefaultServiceInterest
}

func pestLabel(tag string) string {
	if label, ok := PestLabels[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return label
	}
	return titleCase(tag)
}

func titleCase(tag string) string {
	words := strings.FieldsFunc(tag, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// LeadMessage returns the customer's own message, or a summary of the form
// when they left none.
func LeadMessage(kind form.Kind, d form.Data) string {
	if msg := strings.TrimSpace(d.Message); msg != "" {
		return msg
	}

	title, ok := formTitles[kind]
	if !ok {
		title = "Website enquiry"
	}
	lines := []string{title + " from the website."}
	if d.Address != "" {
		lines = append(lines, "Address: "+d.Address)
	}
	if len(d.PestTypes) > 0 {
		lines = append(lines, "Pests: "+strings.Join(d.PestTypes, ", "))
	} else if d.Service != "" {
		lines = append(lines, "Service: "+d.Service)
	}
	if d.PropertyType != "" {
		property := "Property: " + d.PropertyType
		if d.PropertySize != "" {
			property += fmt.Sprintf(" (%s)", d.PropertySize)
		}
		lines = append(lines, property)
	}
	if d.Email != "" {
		lines = append(lines, "Email: "+d.Email)
	}
	return strings.Join(lines, "\n")
}

// BuildInquiry maps validated form data onto the CRM's inquiry body
func BuildInquiry(kind form.Kind, d form.Data) crm.Inquiry {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = AnonymousName
	}
	return crm.Inquiry{
		Name:            name,
		Mobile:          form.DigitsOnly(d.Phone),
		Email:           strings.TrimSpace(d.Email),
		City:            InferCity(d.Address),
		ServiceInterest: ServiceInterest(d.PestTypes, d.Service),
		Message:         LeadMessage(kind, d),
	}
}
