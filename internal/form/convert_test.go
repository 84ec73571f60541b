package form

import (
	"testing"

	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFromQuoteRequest_DropsBlankPestTags(t *testing.T) {
	d := FromQuoteRequest(&models.QuoteRequest{
		Name:      "Asha Rao",
		Phone:     "9876543210",
		Address:   "12 MG Road, Mumbai",
		PestTypes: []string{"  ", " termites ", "", "termites", "ants"},
	})

	assert.Equal(t, []string{"termites", "ants"}, d.PestTypes)
}

func TestFromHomeQuoteRequest_BlankPestTagsFailValidation(t *testing.T) {
	d := FromHomeQuoteRequest(&models.HomeQuoteRequest{
		Phone:         "9876543210",
		StreetAddress: "Flat 4, Bandra",
		PestTypes:     []string{"  "},
		PropertyType:  "apartment",
		PropertySize:  "2bhk",
	})

	assert.Empty(t, d.PestTypes)
	assert.Equal(t, "Flat 4, Bandra", d.Address)
	assert.Equal(t, "Please select at least one pest type", Validate(KindHomeQuote, d)[FieldPestTypes])
}
