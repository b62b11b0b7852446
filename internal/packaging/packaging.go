package packaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
)

// PutConfigRequest is the JSON body for PUT /api/v1/packaging-config.
// Validation here only checks shape; semantic checks (positive
// units_per_master) stay with the sizing calculator so a row written by
// another path still fails closed at batch time.
type PutConfigRequest struct {
	UnitsPerMaster int `json:"units_per_master" validate:"required,gt=0"`
	BufferPer1000  int `json:"buffer_per_1000" validate:"gte=0"`
}

// ConfigResponse is the data payload for packaging configuration reads.
type ConfigResponse struct {
	UnitsPerMaster int       `json:"units_per_master"`
	BufferPer1000  int       `json:"buffer_per_1000"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Repository defines persistence operations for packaging configuration.
type Repository interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.PackagingConfig, error)
	Upsert(ctx context.Context, cfg *models.PackagingConfig) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a packaging repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.PackagingConfig, error) {
	var cfg models.PackagingConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) Upsert(ctx context.Context, cfg *models.PackagingConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"units_per_master", "buffer_per_1000", "updated_at"}),
		}).
		Create(cfg).Error
}

// Service defines packaging configuration operations.
type Service interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*ConfigResponse, error)
	Put(ctx context.Context, tenantID uuid.UUID, req PutConfigRequest) (*ConfigResponse, error)
}

type service struct {
	repo Repository
}

// NewService builds a packaging service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("packaging repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, tenantID uuid.UUID) (*ConfigResponse, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	cfg, err := s.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "packaging configuration not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading packaging configuration")
	}
	return toResponse(cfg), nil
}

func (s *service) Put(ctx context.Context, tenantID uuid.UUID, req PutConfigRequest) (*ConfigResponse, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	if req.UnitsPerMaster <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units_per_master must be a positive integer")
	}
	if req.BufferPer1000 < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buffer_per_1000 must be non-negative")
	}

	cfg := &models.PackagingConfig{
		TenantID:       tenantID,
		UnitsPerMaster: req.UnitsPerMaster,
		BufferPer1000:  req.BufferPer1000,
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving packaging configuration")
	}

	saved, err := s.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading packaging configuration")
	}
	return toResponse(saved), nil
}

func toResponse(cfg *models.PackagingConfig) *ConfigResponse {
	return &ConfigResponse{
		UnitsPerMaster: cfg.UnitsPerMaster,
		BufferPer1000:  cfg.BufferPer1000,
		UpdatedAt:      cfg.UpdatedAt,
	}
}
