package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/internal/repository"
	"github.com/pestpro/pestpro-api/pkg/crm"
	apperrors "github.com/pestpro/pestpro-api/pkg/errors"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/pestpro/pestpro-api/pkg/mailer"
	"github.com/pestpro/pestpro-api/pkg/metrics"
	"github.com/pestpro/pestpro-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// sinkTimeout bounds both sinks, which ignore the caller's cancellation.
const sinkTimeout = 30 * time.Second

// Customer-facing messages per form
var (
	successMessages = map[form.Kind]string{
		form.KindQuote:     "Thank you! Your quote request has been received. Our team will call you within 30 minutes.",
		form.KindContact:   "Thank you for contacting us! We'll get back to you shortly.",
		form.KindHomeQuote: "Thank you! We'll call you within 30 minutes with your free quote.",
	}
	failureMessages = map[form.Kind]string{
		form.KindQuote:     "Failed to submit quote request. Please try again.",
		form.KindContact:   "Failed to submit contact form. Please try again.",
		form.KindHomeQuote: "Failed to submit your request. Please try again.",
	}
)

// FailureMessage is the generic message for a submission that could not be
// processed at all.
func FailureMessage(kind form.Kind) string {
	if msg, ok := failureMessages[kind]; ok {
		return msg
	}
	return form.GenericFailureMessage
}

// ValidationFailure is returned when the server-side check rejects a form.
// No sink is called for such a submission.
type ValidationFailure struct {
	Errors form.Errors
}

func (v *ValidationFailure) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v.Errors))
}

func (v *ValidationFailure) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// LeadService validates a lead and fans it out to the CRM and the sales
// inbox. Sink failures are logged and reflected in the outcome flags but
// never turn an accepted lead into a failure.
type LeadService struct {
	crm     CRMClient
	mailer  Notifier
	journal repository.LeadJournal
	newID   func() (uuid.UUID, error)
}

// NewLeadService creates a new lead service. notifier and journal may be nil.
func NewLeadService(crmClient CRMClient, notifier Notifier, journal repository.LeadJournal) *LeadService {
	return &LeadService{
		crm:     crmClient,
		mailer:  notifier,
		journal: journal,
		newID:   uuid.NewV7,
	}
}

// Submit runs one submission through validation and both sinks
func (s *LeadService) Submit(ctx context.Context, kind form.Kind, d form.Data) (outcome *models.SubmissionOutcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "LeadService.Submit", attribute.String("lead.form", string(kind)))
	defer func() { tracing.EndSpan(span, err) }()

	if !kind.Valid() {
		metrics.LeadSubmissions.WithLabelValues("unknown", "rejected").Inc()
		return nil, apperrors.InvalidInputError("form", fmt.Sprintf("unknown form %q", kind))
	}

	if errs := form.Validate(kind, d); !errs.Valid() {
		metrics.LeadSubmissions.WithLabelValues(string(kind), "invalid").Inc()
		logger.Info("Lead rejected by validation",
			zap.String("form", string(kind)),
			zap.Strings("fields", fieldNames(errs)))
		return nil, &ValidationFailure{Errors: errs}
	}

	id, err := s.newID()
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues(string(kind), "error").Inc()
		return nil, fmt.Errorf("failed to allocate submission id: %w", err)
	}
	submissionID := id.String()
	span.SetAttributes(attribute.String("lead.submission_id", submissionID))

	inquiry := BuildInquiry(kind, d)
	log := logger.With(zap.String("submission_id", submissionID), zap.String("form", string(kind)))

	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	var (
		g         errgroup.Group
		crmLeadID string
		crmErr    error
		emailErr  error
		emailSent bool
	)

	g.Go(func() error {
		crmLeadID, crmErr = s.sendToCRM(sinkCtx, inquiry)
		return nil
	})

	if s.mailer != nil && s.mailer.Configured() {
		g.Go(func() error {
			emailErr = s.notify(sinkCtx, submissionID, kind, d, inquiry)
			emailSent = emailErr == nil
			return nil
		})
	} else {
		metrics.SinkResults.WithLabelValues("email", "skipped").Inc()
		log.Info("Email credentials not configured, skipping lead notification")
	}

	_ = g.Wait()

	if crmErr != nil {
		metrics.SinkResults.WithLabelValues("crm", "error").Inc()
		log.Error("CRM submission failed", zap.Error(crmErr))
	} else {
		metrics.SinkResults.WithLabelValues("crm", "success").Inc()
		log.Info("Lead created in CRM", zap.String("crm_lead_id", crmLeadID))
	}
	if emailErr != nil {
		metrics.SinkResults.WithLabelValues("email", "error").Inc()
		log.Error("Lead notification email failed", zap.Error(emailErr))
	} else if emailSent {
		metrics.SinkResults.WithLabelValues("email", "success").Inc()
	}

	outcome = models.Success(successMessages[kind], crmErr == nil)
	outcome.SubmissionID = submissionID
	outcome.EmailSent = emailSent
	outcome.LeadID = crmLeadID

	s.record(sinkCtx, log, &models.LeadRecord{
		SubmissionID:    submissionID,
		Form:            string(kind),
		Name:            inquiry.Name,
		Phone:           inquiry.Mobile,
		Email:           inquiry.Email,
		City:            inquiry.City,
		ServiceInterest: inquiry.ServiceInterest,
		CRMSucceeded:    outcome.CRMSucceeded,
		CRMLeadID:       crmLeadID,
		EmailSent:       emailSent,
	})

	metrics.LeadSubmissions.WithLabelValues(string(kind), "accepted").Inc()
	span.SetAttributes(
		attribute.Bool("lead.crm_submitted", outcome.CRMSucceeded),
		attribute.Bool("lead.email_sent", emailSent),
	)
	return outcome, nil
}

func (s *LeadService) sendToCRM(ctx context.Context, inquiry crm.Inquiry) (leadID string, err error) {
	ctx, span := tracing.StartSpan(ctx, "crm.CreateInquiry", attribute.String("lead.city", inquiry.City))
	defer func() { tracing.EndSpan(span, err) }()

	resp, err := s.crm.CreateInquiry(ctx, inquiry)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.ID, nil
}

func (s *LeadService) notify(ctx context.Context, submissionID string, kind form.Kind, d form.Data, inquiry crm.Inquiry) (err error) {
	ctx, span := tracing.StartSpan(ctx, "mailer.SendLeadNotification")
	defer func() { tracing.EndSpan(span, err) }()

	return s.mailer.SendLeadNotification(ctx, mailer.Notification{
		SubmissionID:    submissionID,
		Form:            string(kind),
		Name:            d.Name,
		Phone:           d.Phone,
		Email:           inquiry.Email,
		Address:         d.Address,
		City:            inquiry.City,
		ServiceInterest: inquiry.ServiceInterest,
		PropertyType:    d.PropertyType,
		PropertySize:    d.PropertySize,
		Message:         inquiry.Message,
	})
}

func (s *LeadService) record(ctx context.Context, log *zap.Logger, rec *models.LeadRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		log.Warn("Failed to journal lead", zap.Error(err))
	}
}

func fieldNames(errs form.Errors) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
