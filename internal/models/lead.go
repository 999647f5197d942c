package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lead struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"unique;not null"`
	Charges   []Charge  `gorm:"foreignKey:LeadID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (lead *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	return
}
