package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
	"github.com/veritrace/qrbatch-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("Product").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindManufacturerByID(ctx context.Context, tenantID, manufacturerID uuid.UUID) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", manufacturerID, tenantID).
		First(&manufacturer).Error
	if err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func (r *repository) MarkPOSent(ctx context.Context, orderID uuid.UUID, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":     enums.OrderStatusPOSent,
			"po_sent_at": sentAt,
		}).Error
}
