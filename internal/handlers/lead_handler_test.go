package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pestpro/pestpro-api/config"
	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testBusiness = config.BusinessConfig{Phone: "+919876500000", WhatsApp: "919876500000"}

func setupLeadRouter(service services.LeadServiceInterface) *gin.Engine {
	handler := NewLeadHandler(service, testBusiness)
	router := gin.New()
	router.POST("/api/send-quote", handler.SendQuote)
	router.POST("/api/contact", handler.Contact)
	router.POST("/api/home-quote", handler.HomeQuote)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLeadHandler_SendQuote_Success(t *testing.T) {
	service := new(MockLeadService)
	want := form.Data{
		Name:      "Asha Rao",
		Phone:     "9876543210",
		Address:   "12 MG Road, Mumbai",
		PestTypes: []string{"cockroaches", "termites"},
	}
	outcome := models.Success("Thank you!", true)
	outcome.SubmissionID = "0192f1c4-0000-7000-8000-000000000001"
	service.On("Submit", mock.Anything, form.KindQuote, want).Return(outcome, nil).Once()

	w := postJSON(setupLeadRouter(service), "/api/send-quote",
		`{"name":"Asha Rao","phone":"9876543210","address":"12 MG Road, Mumbai","pestTypes":["cockroaches","termites"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"message": "Thank you!",
		"submissionId": "0192f1c4-0000-7000-8000-000000000001",
		"crmSubmitted": true,
		"contact": {"phone": "+919876500000", "whatsapp": "919876500000"}
	}`, w.Body.String())
	service.AssertExpectations(t)
}

func TestLeadHandler_SendQuote_CRMDownStillOK(t *testing.T) {
	service := new(MockLeadService)
	service.On("Submit", mock.Anything, form.KindQuote, mock.Anything).
		Return(models.Success("Thank you!", false), nil)

	w := postJSON(setupLeadRouter(service), "/api/send-quote", `{"name":"Asha"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"crmSubmitted":false`)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestLeadHandler_ValidationFailure(t *testing.T) {
	service := new(MockLeadService)
	service.On("Submit", mock.Anything, form.KindContact, mock.Anything).
		Return(nil, &services.ValidationFailure{Errors: form.Errors{"phone": "Please enter a valid 10-digit phone number"}})

	w := postJSON(setupLeadRouter(service), "/api/contact", `{"name":"Ravi","phone":"12345"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"error": "Validation failed",
		"details": {"phone": "Please enter a valid 10-digit phone number"},
		"contact": {"phone": "+919876500000", "whatsapp": "919876500000"}
	}`, w.Body.String())
}

func TestLeadHandler_MalformedJSON(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/send-quote", "Failed to submit quote request. Please try again."},
		{"/api/contact", "Failed to submit contact form. Please try again."},
		{"/api/home-quote", "Failed to submit your request. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			service := new(MockLeadService)

			w := postJSON(setupLeadRouter(service), tt.path, `{"name": `)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Contains(t, w.Body.String(), `"whatsapp":"919876500000"`)
			service.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLeadHandler_UnexpectedError(t *testing.T) {
	service := new(MockLeadService)
	service.On("Submit", mock.Anything, form.KindQuote, mock.Anything).
		Return(nil, errors.New("entropy exhausted"))

	w := postJSON(setupLeadRouter(service), "/api/send-quote", `{}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "entropy")
	assert.Contains(t, w.Body.String(), "Failed to submit quote request")
}

func TestLeadHandler_HomeQuote_MapsStreetAddress(t *testing.T) {
	service := new(MockLeadService)
	service.On("Submit", mock.Anything, form.KindHomeQuote, mock.MatchedBy(func(d form.Data) bool {
		return d.Address == "Flat 4, Bandra" && d.Name == ""
	})).Return(models.Success("ok", true), nil).Once()

	w := postJSON(setupLeadRouter(service), "/api/home-quote",
		`{"phone":"9876543210","streetAddress":"Flat 4, Bandra","pestTypes":["ants"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestLeadHandler_BodyTooLarge(t *testing.T) {
	service := new(MockLeadService)
	handler := NewLeadHandler(service, testBusiness)
	router := gin.New()
	router.POST("/api/contact", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 16)
		c.Next()
	}, handler.Contact)

	w := postJSON(router, "/api/contact", `{"name":"`+strings.Repeat("a", 64)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	service.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}
