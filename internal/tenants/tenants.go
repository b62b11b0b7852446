package tenants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/pkg/auth"
	"github.com/veritrace/qrbatch-backend/pkg/config"
	"github.com/veritrace/qrbatch-backend/pkg/db/models"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/security"
)

// TokenRequest is the JSON body for POST /api/v1/auth/token. The API key is
// the tenant's long-lived secret; the response is a short-lived scope token.
type TokenRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
	APIKey   string `json:"api_key" validate:"required,min=16"`
}

// TokenResponse carries the minted tenant-scope token.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Repository defines persistence operations for tenants.
type Repository interface {
	FindByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tenant repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Where("id = ?", tenantID).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Service defines tenant-facing auth operations.
type Service interface {
	IssueToken(ctx context.Context, tenantID uuid.UUID, apiKey string) (*TokenResponse, error)
}

type service struct {
	repo Repository
	jwt  config.JWTConfig
	now  func() time.Time
}

// NewService builds a tenant service.
func NewService(repo Repository, jwtCfg config.JWTConfig, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenants repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, jwt: jwtCfg, now: now}, nil
}

// IssueToken verifies the tenant's API key and mints a tenant-scope JWT.
// Unknown tenant and wrong key both answer UNAUTHORIZED so the endpoint does
// not confirm which tenant ids exist.
func (s *service) IssueToken(ctx context.Context, tenantID uuid.UUID, apiKey string) (*TokenResponse, error) {
	tenant, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid tenant credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tenant")
	}

	ok, err := security.VerifyAPIKey(apiKey, tenant.APIKeyHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying api key")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid tenant credentials")
	}

	now := s.now()
	token, err := auth.MintTenantToken(s.jwt, now, tenant.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting tenant token")
	}

	return &TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: now.Add(time.Duration(s.jwt.ExpirationMinutes) * time.Minute),
	}, nil
}
