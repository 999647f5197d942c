package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPixConfigDefaults(t *testing.T) {
	for _, key := range []string{"PIX_PROVIDER", "PIX_FIXED_AMOUNT_CENTS", "PIX_KEY", "PIX_MERCHANT_NAME", "PIX_MERCHANT_CITY", "PIX_CHARGE_TTL_MINUTES"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Pix.Provider)
	assert.Equal(t, DefaultAmountCents, cfg.Pix.AmountCents)
	assert.Equal(t, "chave-pix-exemplo@dominio.com", cfg.Pix.Key)
	assert.Equal(t, "PIX SaaS Learning", cfg.Pix.MerchantName)
	assert.Equal(t, "SAO PAULO", cfg.Pix.MerchantCity)
	assert.Equal(t, DefaultChargeTTL, cfg.Pix.ChargeTTL)
}

func TestAmountCentsFromEnv(t *testing.T) {
	cases := map[string]int{
		"1500": 1500,
		"990":  990,
		"abc":  DefaultAmountCents,
		"-5":   DefaultAmountCents,
		"0":    DefaultAmountCents,
		"9.90": DefaultAmountCents,
	}
	for raw, want := range cases {
		t.Setenv("PIX_FIXED_AMOUNT_CENTS", raw)
		assert.Equal(t, want, amountCentsFromEnv(), "PIX_FIXED_AMOUNT_CENTS=%s", raw)
	}
}

func TestChargeTTLFromEnv(t *testing.T) {
	t.Setenv("PIX_CHARGE_TTL_MINUTES", "10")
	assert.Equal(t, 10*time.Minute, chargeTTLFromEnv())

	t.Setenv("PIX_CHARGE_TTL_MINUTES", "nope")
	assert.Equal(t, DefaultChargeTTL, chargeTTLFromEnv())
}
