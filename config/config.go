package config

import (
	"fmt"
	"os"
	"time"

	"github.com/GabrielFBos/pix-saas-working/internal/helpers"
	"github.com/GabrielFBos/pix-saas-working/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DefaultAmountCents = 990
	DefaultChargeTTL   = 30 * time.Minute
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	Pix        PixConfig
}

type PixConfig struct {
	Provider      string
	AmountCents   int
	Key           string
	MerchantName  string
	MerchantCity  string
	WebhookSecret string
	ChargeTTL     time.Duration
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		Pix:        loadPixConfig(),
	}, nil
}

func loadPixConfig() PixConfig {
	return PixConfig{
		Provider:      envOrDefault("PIX_PROVIDER", "mock"),
		AmountCents:   amountCentsFromEnv(),
		Key:           envOrDefault("PIX_KEY", "chave-pix-exemplo@dominio.com"),
		MerchantName:  envOrDefault("PIX_MERCHANT_NAME", "PIX SaaS Learning"),
		MerchantCity:  envOrDefault("PIX_MERCHANT_CITY", "SAO PAULO"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		ChargeTTL:     chargeTTLFromEnv(),
	}
}

// amountCentsFromEnv reads PIX_FIXED_AMOUNT_CENTS. The price is fixed per
// deployment; a missing or non-positive value falls back to the default
// instead of failing startup.
func amountCentsFromEnv() int {
	raw := os.Getenv("PIX_FIXED_AMOUNT_CENTS")
	if raw == "" {
		return DefaultAmountCents
	}
	cents, err := helpers.StringToInt(raw)
	if err != nil || cents <= 0 {
		return DefaultAmountCents
	}
	return cents
}

func chargeTTLFromEnv() time.Duration {
	raw := os.Getenv("PIX_CHARGE_TTL_MINUTES")
	if raw == "" {
		return DefaultChargeTTL
	}
	minutes, err := helpers.StringToInt(raw)
	if err != nil || minutes <= 0 {
		return DefaultChargeTTL
	}
	return time.Duration(minutes) * time.Minute
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.Lead{}, &models.Charge{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
