package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
)

// CreateProductRequest is the JSON body for POST /api/v1/products.
type CreateProductRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=255"`
	SKU        *string `json:"sku" validate:"omitempty,max=64"`
	PriceCents int     `json:"price_cents" validate:"required,gt=0"`
	ImageURL   *string `json:"image_url" validate:"omitempty,url"`
}

// ProductResponse is the data payload for product reads and creates.
type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SKU        *string   `json:"sku,omitempty"`
	PriceCents int       `json:"price_cents"`
	ImageURL   *string   `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", productID, tenantID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Service defines product operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error)
	Get(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error)
}

type service struct {
	repo Repository
}

// NewService builds a product service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	product := &models.Product{
		TenantID:   tenantID,
		Name:       req.Name,
		SKU:        req.SKU,
		PriceCents: req.PriceCents,
		ImageURL:   req.ImageURL,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return toResponse(product), nil
}

func (s *service) Get(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	product, err := s.repo.FindByID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return toResponse(product), nil
}

func toResponse(product *models.Product) *ProductResponse {
	return &ProductResponse{
		ID:         product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		PriceCents: product.PriceCents,
		ImageURL:   product.ImageURL,
		CreatedAt:  product.CreatedAt,
	}
}
