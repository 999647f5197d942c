package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GabrielFBos/pix-saas-working/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormLeadRepository struct {
	db *gorm.DB
}

func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

func (r *GormLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("creating lead: %w", err)
	}
	return nil
}

func (r *GormLeadRepository) FindByEmail(ctx context.Context, email string) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding lead by email: %w", err)
	}
	return &lead, nil
}

type GormChargeRepository struct {
	db *gorm.DB
}

func NewGormChargeRepository(db *gorm.DB) *GormChargeRepository {
	return &GormChargeRepository{db: db}
}

func (r *GormChargeRepository) Create(ctx context.Context, charge *models.Charge) error {
	if err := r.db.WithContext(ctx).Create(charge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("creating charge: %w", err)
	}
	return nil
}

func (r *GormChargeRepository) FindByTxID(ctx context.Context, txid string) (*models.Charge, error) {
	var charge models.Charge
	if err := r.db.WithContext(ctx).Where("tx_id = ?", txid).First(&charge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding charge by txid: %w", err)
	}
	return &charge, nil
}

func (r *GormChargeRepository) FindLatestByLead(ctx context.Context, leadID uuid.UUID) (*models.Charge, error) {
	var charge models.Charge
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		First(&charge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding latest charge for lead: %w", err)
	}
	return &charge, nil
}

func (r *GormChargeRepository) UpdateStatusFromPending(ctx context.Context, txid string, status models.ChargeStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Charge{}).
		Where("tx_id = ? AND status = ?", txid, models.StatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, fmt.Errorf("updating charge status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
