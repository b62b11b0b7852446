package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the physical unit being ordered and labelled.
type Product struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	SKU        *string   `gorm:"column:sku"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	ImageURL   *string   `gorm:"column:image_url"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
