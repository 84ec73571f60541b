package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/pkg/metrics"
)

const insertLeadSQL = `INSERT INTO lead_submissions
	(submission_id, form, name, phone, email, city, service_interest, crm_submitted, crm_lead_id, email_sent)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (submission_id) DO NOTHING`

// LeadRepository writes the lead journal to PostgreSQL
type LeadRepository struct {
	db DBTX
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db DBTX) *LeadRepository {
	return &LeadRepository{db: db}
}

// Record inserts one submission
func (r *LeadRepository) Record(ctx context.Context, rec *models.LeadRecord) error {
	if rec == nil || rec.SubmissionID == "" {
		return fmt.Errorf("lead record requires a submission id")
	}

	start := time.Now()
	_, err := r.db.Exec(ctx, insertLeadSQL,
		rec.SubmissionID,
		rec.Form,
		rec.Name,
		rec.Phone,
		rec.Email,
		rec.City,
		rec.ServiceInterest,
		rec.CRMSucceeded,
		rec.CRMLeadID,
		rec.EmailSent,
	)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordClientCall("postgres", "record_lead", status, metrics.MeasureDuration(start))

	if err != nil {
		return fmt.Errorf("failed to record lead %s: %w", rec.SubmissionID, err)
	}
	return nil
}
