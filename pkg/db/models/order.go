package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/pkg/enums"
)

// Order is the immutable purchase-order reference a batch is generated from.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	Code           string            `gorm:"column:code;not null;uniqueIndex:idx_orders_tenant_code"`
	ManufacturerID uuid.UUID         `gorm:"column:manufacturer_id;type:uuid;not null"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	TotalUnits     int               `gorm:"column:total_units;not null"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:created"`
	POSentAt       *time.Time        `gorm:"column:po_sent_at"`
	Manufacturer   *Manufacturer     `gorm:"foreignKey:ManufacturerID"`
	Product        *Product          `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
