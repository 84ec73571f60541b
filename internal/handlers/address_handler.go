package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/pestpro/pestpro-api/internal/services"
)

type suggestQuery struct {
	Q string `form:"q" binding:"max=200"`
}

type resolveQuery struct {
	Q string `form:"q" binding:"required,max=200"`
}

type reverseQuery struct {
	Lat *float64 `form:"lat" binding:"required,latitude"`
	Lng *float64 `form:"lng" binding:"required,longitude"`
}

type AddressHandler struct {
	resolver services.AddressResolverInterface
}

func NewAddressHandler(resolver services.AddressResolverInterface) *AddressHandler {
	return &AddressHandler{resolver: resolver}
}

// Suggest handles GET /api/address/suggest?q=. Provider failures yield an
// empty list rather than an error.
func (h *AddressHandler) Suggest(c *gin.Context) {
	var q suggestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid query", ParseValidationErrors(err), err)
		return
	}

	suggestions := slices.Collect(h.resolver.Suggest(c.Request.Context(), q.Q))
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Resolve handles GET /api/address/resolve?q=
func (h *AddressHandler) Resolve(c *gin.Context) {
	var q resolveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid query", ParseValidationErrors(err), err)
		return
	}

	place, err := h.resolver.Resolve(c.Request.Context(), q.Q)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

// Reverse handles GET /api/address/reverse?lat=&lng=
func (h *AddressHandler) Reverse(c *gin.Context) {
	var q reverseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid coordinates", ParseValidationErrors(err), err)
		return
	}

	place, err := h.resolver.Reverse(c.Request.Context(), *q.Lat, *q.Lng)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *AddressHandler) respondLookupError(c *gin.Context, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		respondError(c, status, "Invalid address lookup", err)
	case http.StatusNotFound:
		respondError(c, status, "Address not found", err)
	case http.StatusServiceUnavailable:
		respondError(c, status, "Address lookup is temporarily unavailable", err)
	default:
		respondError(c, status, "Internal server error", err)
	}
}
