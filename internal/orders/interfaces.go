package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their references.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindManufacturerByID(ctx context.Context, tenantID, manufacturerID uuid.UUID) (*models.Manufacturer, error)
	MarkPOSent(ctx context.Context, orderID uuid.UUID, sentAt time.Time) error
}
