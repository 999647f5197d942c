package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GabrielFBos/pix-saas-working/config"
	"github.com/GabrielFBos/pix-saas-working/internal/gateway"
	"github.com/GabrielFBos/pix-saas-working/internal/models"
	"github.com/GabrielFBos/pix-saas-working/internal/repository"
	"github.com/google/uuid"
)

type StatusView struct {
	TxID      string
	Status    models.ChargeStatus
	UpdatedAt time.Time
}

type ChargeView struct {
	TxID             string
	CopyPastePayload string
	QRImage          string
	ExpiresAt        time.Time
}

// ChargeService orchestrates lead resolution, charge creation through the
// gateway and webhook-driven status transitions. Charges are append-only;
// only the status field ever changes after creation.
type ChargeService struct {
	leads   repository.LeadRepository
	charges repository.ChargeRepository
	gateway gateway.PaymentGateway
	cfg     config.PixConfig
	now     func() time.Time
}

func New(leads repository.LeadRepository, charges repository.ChargeRepository, gw gateway.PaymentGateway, cfg config.PixConfig) *ChargeService {
	return &ChargeService{
		leads:   leads,
		charges: charges,
		gateway: gw,
		cfg:     cfg,
		now:     time.Now,
	}
}

// RegisterAndCharge resolves the lead by email and returns the txid of a
// charge for it. Repeated submissions with the same email reuse the
// lead's live charge instead of charging twice; a new charge is created
// only when none is live.
func (s *ChargeService) RegisterAndCharge(ctx context.Context, name, email string) (*ChargeView, error) {
	lead, err := s.resolveLead(ctx, name, email)
	if err != nil {
		return nil, err
	}

	latest, err := s.charges.FindLatestByLead(ctx, lead.ID)
	if err == nil && latest.Live(s.now()) {
		return chargeView(latest), nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	txid := uuid.New().String()
	out, err := s.gateway.CreateCharge(ctx, gateway.CreateChargeInput{
		TxID:        txid,
		AmountCents: s.cfg.AmountCents,
		Payer:       gateway.Payer{Name: name, Email: email},
	})
	if err != nil {
		return nil, fmt.Errorf("creating charge with gateway: %w", err)
	}

	charge := &models.Charge{
		LeadID:           lead.ID,
		TxID:             txid,
		AmountCents:      s.cfg.AmountCents,
		Method:           "pix",
		Status:           models.StatusPending,
		CopyPastePayload: out.CopyPastePayload,
		QRImage:          out.QRImage,
		ExpiresAt:        out.ExpiresAt,
	}
	if err := s.charges.Create(ctx, charge); err != nil {
		return nil, err
	}
	return chargeView(charge), nil
}

// CheckStatus returns the current status of a charge. Expiry is decided
// lazily here: a pending charge past its deadline is flipped to expired
// on read, there is no background sweep.
func (s *ChargeService) CheckStatus(ctx context.Context, txid string) (*StatusView, error) {
	charge, err := s.charges.FindByTxID(ctx, txid)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if charge.Status == models.StatusPending && !now.Before(charge.ExpiresAt) {
		if _, err := s.charges.UpdateStatusFromPending(ctx, txid, models.StatusExpired); err != nil {
			return nil, err
		}
		return &StatusView{TxID: txid, Status: models.StatusExpired, UpdatedAt: now}, nil
	}

	if charge.Status == models.StatusPending {
		// Poll the provider for charges still in flight. The mock reports
		// the stored status, real providers may know about a settlement
		// the webhook has not delivered yet.
		status, err := s.gateway.GetStatus(ctx, txid)
		if err != nil {
			return nil, err
		}
		if status != charge.Status && status.Terminal() {
			if _, err := s.charges.UpdateStatusFromPending(ctx, txid, status); err != nil {
				return nil, err
			}
			return &StatusView{TxID: txid, Status: status, UpdatedAt: now}, nil
		}
	}

	return &StatusView{TxID: txid, Status: charge.Status, UpdatedAt: charge.UpdatedAt}, nil
}

// HandleWebhook verifies and applies a provider notification. Safe under
// re-delivery: a charge already in a terminal status is left untouched
// and the call still succeeds.
func (s *ChargeService) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	result, err := s.gateway.ApplyWebhook(headers, body)
	if err != nil {
		return err
	}

	if _, err := s.charges.FindByTxID(ctx, result.TxID); err != nil {
		return err
	}

	_, err = s.charges.UpdateStatusFromPending(ctx, result.TxID, result.Status)
	return err
}

func (s *ChargeService) resolveLead(ctx context.Context, name, email string) (*models.Lead, error) {
	lead, err := s.leads.FindByEmail(ctx, email)
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	lead = &models.Lead{Name: name, Email: email}
	switch err := s.leads.Create(ctx, lead); {
	case err == nil:
		return lead, nil
	case errors.Is(err, repository.ErrDuplicate):
		// Lost the insert race, someone else registered this email first.
		return s.leads.FindByEmail(ctx, email)
	default:
		return nil, err
	}
}

func chargeView(charge *models.Charge) *ChargeView {
	return &ChargeView{
		TxID:             charge.TxID,
		CopyPastePayload: charge.CopyPastePayload,
		QRImage:          charge.QRImage,
		ExpiresAt:        charge.ExpiresAt,
	}
}
