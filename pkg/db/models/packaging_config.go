package models

import (
	"time"

	"github.com/google/uuid"
)

// PackagingConfig holds the tenant-level packaging settings. One row per
// tenant; it must exist with valid values before a batch can be generated.
type PackagingConfig struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex"`
	UnitsPerMaster int       `gorm:"column:units_per_master;not null"`
	BufferPer1000  int       `gorm:"column:buffer_per_1000;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
