package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/pkg/enums"
)

// Batch is one generation run: the sizing result plus the full unit-code and
// master-carton identifier sets, written atomically.
type Batch struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	OrderID        uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	TotalUnits     int               `gorm:"column:total_units;not null"`
	BufferUnits    int               `gorm:"column:buffer_units;not null"`
	TotalUniqueQRs int               `gorm:"column:total_unique_qrs;not null"`
	MastersCount   int               `gorm:"column:masters_count;not null"`
	Status         enums.BatchStatus `gorm:"column:status;not null;default:created"`
	Codes          []BatchCode       `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	Masters        []BatchMaster     `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BatchCode is one generated unit identifier. Seq preserves generation order;
// the master assignment is derived by chunking seq by units_per_master.
type BatchCode struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchID uuid.UUID `gorm:"column:batch_id;type:uuid;not null;index"`
	Seq     int       `gorm:"column:seq;not null"`
	Code    string    `gorm:"column:code;not null;uniqueIndex"`
}

// BatchMaster is one generated master-carton identifier.
type BatchMaster struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchID uuid.UUID `gorm:"column:batch_id;type:uuid;not null;index"`
	Seq     int       `gorm:"column:seq;not null"`
	Code    string    `gorm:"column:code;not null;uniqueIndex"`
}
