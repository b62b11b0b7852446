package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/veritrace/qrbatch-backend/pkg/db"
	"github.com/veritrace/qrbatch-backend/pkg/db/models"
	"github.com/veritrace/qrbatch-backend/pkg/enums"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
	"github.com/veritrace/qrbatch-backend/pkg/outbox"
)

const poContentType = "application/pdf"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type productFinder interface {
	FindByID(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
}

type blobStore interface {
	Upload(ctx context.Context, object string, data []byte, contentType string) error
	PublicURL(object string) string
}

// Service defines order-level operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderResponse, error)
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error)
	RenderPO(ctx context.Context, tenantID, orderID uuid.UUID) (*RenderPOResponse, error)
	SendPO(ctx context.Context, tenantID, orderID uuid.UUID) (*SendPOResponse, error)
}

type service struct {
	repo     Repository
	products productFinder
	tx       txRunner
	outbox   outboxEmitter
	store    blobStore
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams carries the order service dependencies.
type ServiceParams struct {
	Repo     Repository
	Products productFinder
	Tx       txRunner
	Outbox   outboxEmitter
	Store    blobStore
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		tx:       params.Tx,
		outbox:   params.Outbox,
		store:    params.Store,
		logg:     params.Logger,
		now:      now,
	}, nil
}

// POSentEvent is the outbox payload emitted when a purchase order goes out.
type POSentEvent struct {
	OrderID        uuid.UUID `json:"order_id"`
	OrderCode      string    `json:"order_code"`
	ManufacturerID uuid.UUID `json:"manufacturer_id"`
	POLocation     string    `json:"po_location"`
	SentAt         time.Time `json:"sent_at"`
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderResponse, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	if input.TotalUnits <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_units must be a positive integer")
	}

	manufacturer, err := s.repo.FindManufacturerByID(ctx, input.TenantID, input.ManufacturerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manufacturer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading manufacturer")
	}

	product, err := s.products.FindByID(ctx, input.TenantID, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	order := &models.Order{
		TenantID:       input.TenantID,
		Code:           input.Code,
		ManufacturerID: manufacturer.ID,
		ProductID:      product.ID,
		TotalUnits:     input.TotalUnits,
		Status:         enums.OrderStatusCreated,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		if dbpkg.IsUniqueViolation(err, "idx_orders_tenant_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	order.Manufacturer = manufacturer
	order.Product = product
	return toOrderResponse(order), nil
}

func (s *service) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOwned(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// RenderPO builds the purchase order PDF and uploads it without touching the
// order status, so the document can be previewed or re-rendered at any time.
func (s *service) RenderPO(ctx context.Context, tenantID, orderID uuid.UUID) (*RenderPOResponse, error) {
	order, err := s.findOwned(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	document, err := BuildPurchaseOrder(order, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building purchase order")
	}

	object := POObjectKey(order)
	if err := s.store.Upload(ctx, object, document, poContentType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading purchase order")
	}

	return &RenderPOResponse{
		OrderID:    order.ID,
		POLocation: s.store.PublicURL(object),
	}, nil
}

func (s *service) SendPO(ctx context.Context, tenantID, orderID uuid.UUID) (*SendPOResponse, error) {
	order, err := s.findOwned(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(enums.OrderStatusPOSent) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("purchase order cannot be sent from status %q", order.Status))
	}

	sentAt := s.now().UTC()
	document, err := BuildPurchaseOrder(order, sentAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building purchase order")
	}

	object := POObjectKey(order)
	if err := s.store.Upload(ctx, object, document, poContentType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading purchase order")
	}
	location := s.store.PublicURL(object)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).MarkPOSent(ctx, order.ID, sentAt); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventPOSent,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			TenantID:      tenantID,
			Data: POSentEvent{
				OrderID:        order.ID,
				OrderCode:      order.Code,
				ManufacturerID: order.ManufacturerID,
				POLocation:     location,
				SentAt:         sentAt,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking purchase order sent")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "purchase order sent")
	}

	return &SendPOResponse{
		OrderID:    order.ID,
		Status:     enums.OrderStatusPOSent.String(),
		POSentAt:   sentAt,
		POLocation: location,
	}, nil
}

func (s *service) findOwned(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.TenantID != tenantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another tenant")
	}
	return order, nil
}
