package repository

import (
	"context"
	"errors"

	"github.com/GabrielFBos/pix-saas-working/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("repository: record not found")
	ErrDuplicate = errors.New("repository: unique constraint violated")
)

type LeadRepository interface {
	// Create inserts the lead. Returns ErrDuplicate when a lead with the
	// same email already exists.
	Create(ctx context.Context, lead *models.Lead) error
	FindByEmail(ctx context.Context, email string) (*models.Lead, error)
}

type ChargeRepository interface {
	// Create inserts the charge. Returns ErrDuplicate on a txid collision.
	Create(ctx context.Context, charge *models.Charge) error
	FindByTxID(ctx context.Context, txid string) (*models.Charge, error)
	// FindLatestByLead returns the lead's most recent charge, or
	// ErrNotFound when the lead has none.
	FindLatestByLead(ctx context.Context, leadID uuid.UUID) (*models.Charge, error)
	// UpdateStatusFromPending moves a pending charge to the given status.
	// Charges already in a terminal status are left untouched; the second
	// return value reports whether a row actually changed.
	UpdateStatusFromPending(ctx context.Context, txid string, status models.ChargeStatus) (bool, error)
}
