package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User rows are created by cmd/seed only; the application reads them.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

const (
	CategoryFruta   = "fruta"
	CategoryVerdura = "verdura"
	CategoryLegume  = "legume"
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryFruta, CategoryVerdura, CategoryLegume:
		return true
	}
	return false
}

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null;index"       json:"name"`
	Category   string    `gorm:"not null"             json:"category"`
	PriceCents int64     `gorm:"not null"             json:"price_cents"`
	// ImagePath is relative to the upload root ("products/<file>"); empty
	// means no image.
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
