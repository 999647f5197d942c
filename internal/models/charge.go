package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChargeStatus string

const (
	StatusPending ChargeStatus = "pending"
	StatusPaid    ChargeStatus = "paid"
	StatusFailed  ChargeStatus = "failed"
	StatusExpired ChargeStatus = "expired"
)

// Terminal reports whether a status admits no further transition.
// Only pending charges may still move.
func (s ChargeStatus) Terminal() bool {
	return s == StatusPaid || s == StatusFailed || s == StatusExpired
}

func (s ChargeStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusExpired:
		return true
	}
	return false
}

type Charge struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key"`
	LeadID           uuid.UUID    `gorm:"type:uuid;not null;index"`
	Lead             *Lead        `gorm:"foreignKey:LeadID"`
	TxID             string       `gorm:"not null;unique"`
	AmountCents      int          `gorm:"not null"`
	Method           string       `gorm:"not null;default:'pix'"`
	Status           ChargeStatus `gorm:"not null;default:'pending'"`
	CopyPastePayload string       `gorm:"type:text;not null"`
	QRImage          string       `gorm:"type:text"`
	ExpiresAt        time.Time    `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (charge *Charge) BeforeCreate(tx *gorm.DB) (err error) {
	if charge.ID == uuid.Nil {
		charge.ID = uuid.New()
	}
	return
}

// Live reports whether the charge can still be settled: pending and not
// yet past its expiry. Live charges are reused instead of re-charging the
// same lead.
func (charge *Charge) Live(now time.Time) bool {
	return charge.Status == StatusPending && now.Before(charge.ExpiresAt)
}
