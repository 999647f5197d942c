package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GabrielFBos/pix-saas-working/config"
	"github.com/GabrielFBos/pix-saas-working/internal/models"
)

var (
	ErrNotImplemented  = errors.New("gateway: provider not implemented")
	ErrUnknownProvider = errors.New("gateway: unknown provider")
	ErrUnauthorized    = errors.New("gateway: webhook signature mismatch")
	ErrMissingField    = errors.New("gateway: webhook body missing txid")
	ErrInvalidStatus   = errors.New("gateway: webhook status not recognized")
)

type Payer struct {
	Name  string
	Email string
}

type CreateChargeInput struct {
	TxID        string
	AmountCents int
	Payer       Payer
}

type CreateChargeOutput struct {
	CopyPastePayload string
	QRImage          string
	ExpiresAt        time.Time
}

type WebhookResult struct {
	TxID   string
	Status models.ChargeStatus
}

// ChargeFinder is the read-only view of the charge store a gateway may
// consult. Gateways never write; persistence belongs to the lifecycle
// service.
type ChargeFinder interface {
	FindByTxID(ctx context.Context, txid string) (*models.Charge, error)
}

// PaymentGateway abstracts the PIX provider. Variants are selected once
// at startup from configuration.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, input CreateChargeInput) (*CreateChargeOutput, error)
	GetStatus(ctx context.Context, txid string) (models.ChargeStatus, error)
	VerifyWebhook(headers http.Header, body []byte) bool
	ApplyWebhook(headers http.Header, body []byte) (*WebhookResult, error)
}

func New(cfg config.PixConfig, finder ChargeFinder) (PaymentGateway, error) {
	switch cfg.Provider {
	case "mock":
		return NewMockGateway(cfg, finder), nil
	case "efi", "mp":
		// Real providers fail closed until someone writes them.
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, cfg.Provider)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
