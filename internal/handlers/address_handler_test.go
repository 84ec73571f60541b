package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/pestpro/pestpro-api/pkg/errors"
	"github.com/pestpro/pestpro-api/pkg/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAddressRouter(resolver *MockAddressResolver) *gin.Engine {
	handler := NewAddressHandler(resolver)
	router := gin.New()
	router.GET("/api/address/suggest", handler.Suggest)
	router.GET("/api/address/resolve", handler.Resolve)
	router.GET("/api/address/reverse", handler.Reverse)
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return w
}

func TestAddressHandler_Suggest(t *testing.T) {
	resolver := new(MockAddressResolver)
	resolver.On("Suggest", mock.Anything, "mg road").
		Return([]string{"MG Road, Mumbai", "MG Road, Pune"})

	w := get(setupAddressRouter(resolver), "/api/address/suggest?q=mg+road")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestions":["MG Road, Mumbai","MG Road, Pune"]}`, w.Body.String())
}

func TestAddressHandler_Suggest_EmptyIsArray(t *testing.T) {
	resolver := new(MockAddressResolver)
	resolver.On("Suggest", mock.Anything, "").Return([]string{})

	w := get(setupAddressRouter(resolver), "/api/address/suggest")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, w.Body.String())
}

func TestAddressHandler_Resolve(t *testing.T) {
	resolver := new(MockAddressResolver)
	resolver.On("Resolve", mock.Anything, "MG Road, Mumbai").
		Return(geocode.Place{Address: "MG Road, Fort, Mumbai", Lat: 18.93, Lng: 72.83}, nil)

	w := get(setupAddressRouter(resolver), "/api/address/resolve?q=MG+Road%2C+Mumbai")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"address":"MG Road, Fort, Mumbai","lat":18.93,"lng":72.83}`, w.Body.String())
}

func TestAddressHandler_Resolve_MissingQuery(t *testing.T) {
	resolver := new(MockAddressResolver)

	w := get(setupAddressRouter(resolver), "/api/address/resolve")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid query","details":{"q":"q is required"}}`, w.Body.String())
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestAddressHandler_Reverse(t *testing.T) {
	resolver := new(MockAddressResolver)
	resolver.On("Reverse", mock.Anything, 19.07, 72.88).
		Return(geocode.Place{Address: "Kurla West, Mumbai", Lat: 19.07, Lng: 72.88}, nil)

	w := get(setupAddressRouter(resolver), "/api/address/reverse?lat=19.07&lng=72.88")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"address":"Kurla West, Mumbai","lat":19.07,"lng":72.88}`, w.Body.String())
}

func TestAddressHandler_Reverse_BadCoordinates(t *testing.T) {
	resolver := new(MockAddressResolver)

	for _, target := range []string{
		"/api/address/reverse?lat=19.07",
		"/api/address/reverse?lat=123&lng=72.88",
		"/api/address/reverse?lat=abc&lng=72.88",
	} {
		w := get(setupAddressRouter(resolver), target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	resolver.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddressHandler_LookupErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no results", geocode.ErrNoResults, http.StatusNotFound},
		{"provider down", apperrors.UnavailableError("google_maps", assert.AnError), http.StatusServiceUnavailable},
		{"bad input", apperrors.InvalidInputError("address", "must not be empty"), http.StatusBadRequest},
		{"other", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(MockAddressResolver)
			resolver.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return(geocode.Place{}, tt.err)

			w := get(setupAddressRouter(resolver), "/api/address/reverse?lat=19.07&lng=72.88")

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
