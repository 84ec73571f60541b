package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pestpro/pestpro-api/internal/models"
)

// DBTX is the part of *pgxpool.Pool the repositories use; pgxmock
// implements it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// LeadJournal appends accepted submissions for operator follow-up
type LeadJournal interface {
	// Record stores one submission; recording the same id twice is a no-op
	Record(ctx context.Context, rec *models.LeadRecord) error
}

var _ LeadJournal = (*LeadRepository)(nil)
