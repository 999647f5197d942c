package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/GabrielFBos/pix-saas-working/internal/models"
	"github.com/GabrielFBos/pix-saas-working/internal/repository"
	"github.com/google/uuid"
)

type LeadRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.Lead
}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{byEmail: make(map[string]*models.Lead)}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[lead.Email]; exists {
		return repository.ErrDuplicate
	}
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	clone := *lead
	r.byEmail[lead.Email] = &clone
	return nil
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *lead
	return &clone, nil
}

type ChargeRepository struct {
	mu     sync.RWMutex
	byTxID map[string]*models.Charge
}

func NewChargeRepository() *ChargeRepository {
	return &ChargeRepository{byTxID: make(map[string]*models.Charge)}
}

func (r *ChargeRepository) Create(ctx context.Context, charge *models.Charge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTxID[charge.TxID]; exists {
		return repository.ErrDuplicate
	}
	if charge.ID == uuid.Nil {
		charge.ID = uuid.New()
	}
	if charge.Status == "" {
		charge.Status = models.StatusPending
	}
	charge.CreatedAt = time.Now()
	charge.UpdatedAt = charge.CreatedAt
	clone := *charge
	r.byTxID[charge.TxID] = &clone
	return nil
}

func (r *ChargeRepository) FindByTxID(ctx context.Context, txid string) (*models.Charge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	charge, ok := r.byTxID[txid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *charge
	return &clone, nil
}

func (r *ChargeRepository) FindLatestByLead(ctx context.Context, leadID uuid.UUID) (*models.Charge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Charge
	for _, charge := range r.byTxID {
		if charge.LeadID != leadID {
			continue
		}
		if latest == nil || charge.CreatedAt.After(latest.CreatedAt) {
			latest = charge
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *ChargeRepository) UpdateStatusFromPending(ctx context.Context, txid string, status models.ChargeStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	charge, ok := r.byTxID[txid]
	if !ok {
		return false, nil
	}
	if charge.Status != models.StatusPending {
		return false, nil
	}
	charge.Status = status
	charge.UpdatedAt = time.Now()
	return true, nil
}
