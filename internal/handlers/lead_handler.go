package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pestpro/pestpro-api/config"
	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/internal/services"
)

type LeadHandler struct {
	service services.LeadServiceInterface
	contact models.ContactChannels
}

func NewLeadHandler(service services.LeadServiceInterface, business config.BusinessConfig) *LeadHandler {
	return &LeadHandler{
		service: service,
		contact: models.ContactChannels{Phone: business.Phone, WhatsApp: business.WhatsApp},
	}
}

// SendQuote handles POST /api/send-quote
func (h *LeadHandler) SendQuote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, form.KindQuote, err)
		return
	}
	h.submit(c, form.KindQuote, form.FromQuoteRequest(&req))
}

// Contact handles POST /api/contact
func (h *LeadHandler) Contact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, form.KindContact, err)
		return
	}
	h.submit(c, form.KindContact, form.FromContactRequest(&req))
}

// HomeQuote handles POST /api/home-quote
func (h *LeadHandler) HomeQuote(c *gin.Context) {
	var req models.HomeQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, form.KindHomeQuote, err)
		return
	}
	h.submit(c, form.KindHomeQuote, form.FromHomeQuoteRequest(&req))
}

func (h *LeadHandler) submit(c *gin.Context, kind form.Kind, d form.Data) {
	outcome, err := h.service.Submit(c.Request.Context(), kind, d)
	if err != nil {
		var vf *services.ValidationFailure
		if errors.As(err, &vf) {
			h.respond(c, http.StatusBadRequest, models.ErrorResponse{
				Error:   "Validation failed",
				Details: vf.Errors,
				Contact: &h.contact,
			}, err)
			return
		}
		h.respond(c, http.StatusInternalServerError, models.ErrorResponse{
			Error:   services.FailureMessage(kind),
			Contact: &h.contact,
		}, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmissionResponse{
		Success:      outcome.Succeeded(),
		Message:      outcome.Message,
		SubmissionID: outcome.SubmissionID,
		CRMSubmitted: outcome.CRMSucceeded,
		Contact:      h.contact,
	})
}

func (h *LeadHandler) respondBindError(c *gin.Context, kind form.Kind, err error) {
	status := http.StatusInternalServerError
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	h.respond(c, status, models.ErrorResponse{
		Error:   services.FailureMessage(kind),
		Contact: &h.contact,
	}, err)
}

func (h *LeadHandler) respond(c *gin.Context, status int, body models.ErrorResponse, err error) {
	attachError(c, err)
	c.JSON(status, body)
}
