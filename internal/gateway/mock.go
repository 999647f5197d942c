package gateway

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GabrielFBos/pix-saas-working/config"
	"github.com/GabrielFBos/pix-saas-working/internal/models"
	"github.com/GabrielFBos/pix-saas-working/internal/pix"
)

// SecretHeader carries the shared webhook secret on mock deliveries.
const SecretHeader = "X-Webhook-Secret"

type webhookBody struct {
	TxID   string `json:"txid"`
	Status string `json:"status"`
}

// MockGateway fabricates charges locally: the copy-paste payload and QR
// image come straight from the encoder and the charge stays pending until
// a webhook with the shared secret arrives. No network calls.
type MockGateway struct {
	cfg    config.PixConfig
	finder ChargeFinder
	now    func() time.Time
}

func NewMockGateway(cfg config.PixConfig, finder ChargeFinder) *MockGateway {
	return &MockGateway{cfg: cfg, finder: finder, now: time.Now}
}

func (g *MockGateway) CreateCharge(ctx context.Context, input CreateChargeInput) (*CreateChargeOutput, error) {
	payload, err := pix.Encode(pix.ChargeData{
		TxID:         input.TxID,
		AmountCents:  input.AmountCents,
		Key:          g.cfg.Key,
		MerchantName: g.cfg.MerchantName,
		MerchantCity: g.cfg.MerchantCity,
	})
	if err != nil {
		return nil, err
	}

	qrImage, err := pix.QRImage(payload)
	if err != nil {
		return nil, fmt.Errorf("rendering qr image: %w", err)
	}

	return &CreateChargeOutput{
		CopyPastePayload: payload,
		QRImage:          qrImage,
		ExpiresAt:        g.now().Add(g.cfg.ChargeTTL),
	}, nil
}

func (g *MockGateway) GetStatus(ctx context.Context, txid string) (models.ChargeStatus, error) {
	charge, err := g.finder.FindByTxID(ctx, txid)
	if err != nil {
		return "", err
	}
	return charge.Status, nil
}

func (g *MockGateway) VerifyWebhook(headers http.Header, body []byte) bool {
	secret := headers.Get(SecretHeader)
	if secret == "" || g.cfg.WebhookSecret == "" {
		return false
	}
	return hmac.Equal([]byte(secret), []byte(g.cfg.WebhookSecret))
}

func (g *MockGateway) ApplyWebhook(headers http.Header, body []byte) (*WebhookResult, error) {
	if !g.VerifyWebhook(headers, body) {
		return nil, ErrUnauthorized
	}

	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingField, err)
	}
	if payload.TxID == "" {
		return nil, ErrMissingField
	}

	// The original mock marks charges paid by default; an explicit
	// failure notification is the only other accepted transition.
	status := models.StatusPaid
	switch payload.Status {
	case "", string(models.StatusPaid):
	case string(models.StatusFailed):
		status = models.StatusFailed
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, payload.Status)
	}

	return &WebhookResult{TxID: payload.TxID, Status: status}, nil
}
