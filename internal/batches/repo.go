package batches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
)

// insertChunkSize bounds the multi-row insert so a 100k-code batch stays
// within Postgres parameter limits.
const insertChunkSize = 500

type repository struct {
	db *gorm.DB
}

// NewRepository builds a batch repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *repository) CreateCodes(ctx context.Context, codes []models.BatchCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&codes, insertChunkSize).Error
}

func (r *repository) CreateMasters(ctx context.Context, masters []models.BatchMaster) error {
	if len(masters) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&masters, insertChunkSize).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, batchID uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", batchID, tenantID).
		First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}
