package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation boundary. Every domain row is scoped to exactly
// one tenant; nothing crosses the boundary.
type Tenant struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	APIKeyHash string    `gorm:"column:api_key_hash;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
