package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GabrielFBos/pix-saas-working/config"
	"github.com/GabrielFBos/pix-saas-working/internal/gateway"
	"github.com/GabrielFBos/pix-saas-working/internal/handlers"
	"github.com/GabrielFBos/pix-saas-working/internal/middleware"
	"github.com/GabrielFBos/pix-saas-working/internal/repository/inmemory"
	"github.com/GabrielFBos/pix-saas-working/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.PixConfig{
		Provider:      "mock",
		AmountCents:   990,
		Key:           "test-pix-key@example.com",
		MerchantName:  "PIX SaaS Learning",
		MerchantCity:  "SAO PAULO",
		WebhookSecret: webhookSecret,
		ChargeTTL:     30 * time.Minute,
	}

	leads := inmemory.NewLeadRepository()
	charges := inmemory.NewChargeRepository()
	gw, err := gateway.New(cfg, charges)
	require.NoError(t, err)
	svc := service.New(leads, charges, gw, cfg)

	r := gin.New()
	r.Use(middleware.ChargeServiceMiddleware(svc))
	api := r.Group("/api")
	api.POST("/pre-cadastro", handlers.PreRegister)
	api.GET("/pix/status", handlers.ChargeStatus)
	api.POST("/pix/webhook", handlers.Webhook)
	return r
}

func doJSON(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/pre-cadastro", `{"name":"Ana","email":"ana@x.com"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		TxID string `json:"txid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TxID)
	return resp.TxID
}

func TestPreRegister(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/pre-cadastro", `{"name":"Ana","email":"ana@x.com"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		TxID      string `json:"txid"`
		CopyPaste string `json:"copy_paste"`
		QRImage   string `json:"qr_image"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.TxID)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.CopyPaste, "00020126"))
	assert.True(t, strings.HasPrefix(resp.QRImage, "data:image/png;base64,"))
}

func TestPreRegisterValidation(t *testing.T) {
	r := newTestRouter(t)

	cases := map[string]string{
		"missing name":  `{"email":"ana@x.com"}`,
		"short name":    `{"name":"A","email":"ana@x.com"}`,
		"missing email": `{"name":"Ana"}`,
		"bad email":     `{"name":"Ana","email":"not-an-email"}`,
		"not json":      `name=Ana`,
	}
	for label, body := range cases {
		w := doJSON(r, http.MethodPost, "/api/pre-cadastro", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, label)
	}
}

func TestPreRegisterRepeatSubmission(t *testing.T) {
	r := newTestRouter(t)

	first := register(t, r)

	w := doJSON(r, http.MethodPost, "/api/pre-cadastro", `{"name":"Ana","email":"ana@x.com"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		TxID string `json:"txid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, first, resp.TxID)
}

func TestChargeStatusEndpoint(t *testing.T) {
	r := newTestRouter(t)
	txid := register(t, r)

	t.Run("missing txid", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/pix/status", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-uuid txid", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/pix/status?txid=tx_abc123", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown txid", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/pix/status?txid="+uuid.New().String(), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("pending charge", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/api/pix/status?txid="+txid, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			TxID      string    `json:"txid"`
			Status    string    `json:"status"`
			UpdatedAt time.Time `json:"updatedAt"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, txid, resp.TxID)
		assert.Equal(t, "pending", resp.Status)
		assert.False(t, resp.UpdatedAt.IsZero())
	})
}

func TestWebhookEndpoint(t *testing.T) {
	r := newTestRouter(t)
	txid := register(t, r)

	valid := map[string]string{gateway.SecretHeader: webhookSecret}

	t.Run("bad secret", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/pix/webhook", `{"txid":"`+txid+`"}`, map[string]string{gateway.SecretHeader: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "secret", "rejection must not explain itself")
	})

	t.Run("missing txid", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/pix/webhook", `{"status":"paid"}`, valid)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown txid", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/pix/webhook", `{"txid":"`+uuid.New().String()+`"}`, valid)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("marks paid, idempotently", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := doJSON(r, http.MethodPost, "/api/pix/webhook", `{"txid":"`+txid+`","status":"paid"}`, valid)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":true}`, w.Body.String())
		}

		w := doJSON(r, http.MethodGet, "/api/pix/status?txid="+txid, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"paid"`)
	})
}
