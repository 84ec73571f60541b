package services

import (
	"context"
	"iter"

	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/pkg/crm"
	"github.com/pestpro/pestpro-api/pkg/geocode"
	"github.com/pestpro/pestpro-api/pkg/mailer"
)

// LeadServiceInterface defines the interface for lead intake
type LeadServiceInterface interface {
	Submit(ctx context.Context, kind form.Kind, d form.Data) (*models.SubmissionOutcome, error)
}

// AddressResolverInterface defines the interface for address lookups
type AddressResolverInterface interface {
	Suggest(ctx context.Context, partial string) iter.Seq[string]
	Resolve(ctx context.Context, suggestion string) (geocode.Place, error)
	Reverse(ctx context.Context, lat, lng float64) (geocode.Place, error)
}

// CRMClient creates inquiries in the CRM
type CRMClient interface {
	CreateInquiry(ctx context.Context, inq crm.Inquiry) (*crm.InquiryResponse, error)
}

// Notifier emails accepted leads to the business
type Notifier interface {
	Configured() bool
	SendLeadNotification(ctx context.Context, n mailer.Notification) error
}

// Ensure services implement their interfaces
var _ LeadServiceInterface = (*LeadService)(nil)
var _ AddressResolverInterface = (*geocode.Resolver)(nil)
var _ CRMClient = (*crm.Client)(nil)
var _ Notifier = (*mailer.Sender)(nil)

// The form controller can submit in-process through the service.
var _ form.Submitter = (*LeadService)(nil)
