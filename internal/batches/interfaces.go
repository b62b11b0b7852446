package batches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
)

// Repository defines persistence operations for batch tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, batch *models.Batch) error
	CreateCodes(ctx context.Context, codes []models.BatchCode) error
	CreateMasters(ctx context.Context, masters []models.BatchMaster) error
	FindByID(ctx context.Context, tenantID, batchID uuid.UUID) (*models.Batch, error)
}
