package batches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/internal/export"
	"github.com/veritrace/qrbatch-backend/internal/sizing"
	"github.com/veritrace/qrbatch-backend/pkg/db/models"
	"github.com/veritrace/qrbatch-backend/pkg/enums"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/idgen"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
	"github.com/veritrace/qrbatch-backend/pkg/metrics"
	"github.com/veritrace/qrbatch-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type orderFinder interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type packagingFinder interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.PackagingConfig, error)
}

type exporter interface {
	Run(ctx context.Context, view export.BatchView) []export.ArtifactResult
}

// Service defines the batch generation and read operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateBatchResponse, error)
	Get(ctx context.Context, tenantID, batchID uuid.UUID) (*BatchDetail, error)
}

type service struct {
	repo      Repository
	orders    orderFinder
	packaging packagingFinder
	tx        txRunner
	outbox    outboxEmitter
	gen       idgen.Generator
	exporter  exporter
	metrics   *metrics.BatchMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams carries the batch service dependencies.
type ServiceParams struct {
	Repo      Repository
	Orders    orderFinder
	Packaging packagingFinder
	Tx        txRunner
	Outbox    outboxEmitter
	Generator idgen.Generator
	Exporter  exporter
	Metrics   *metrics.BatchMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

// NewService builds the batch service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("batch repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order finder required")
	}
	if params.Packaging == nil {
		return nil, fmt.Errorf("packaging finder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Generator == nil {
		return nil, fmt.Errorf("identifier generator required")
	}
	if params.Exporter == nil {
		return nil, fmt.Errorf("exporter required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		orders:    params.Orders,
		packaging: params.Packaging,
		tx:        params.Tx,
		outbox:    params.Outbox,
		gen:       params.Generator,
		exporter:  params.Exporter,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       now,
	}, nil
}

// BatchCreatedEvent is the outbox payload emitted when a batch commits.
type BatchCreatedEvent struct {
	BatchID        uuid.UUID `json:"batch_id"`
	OrderID        uuid.UUID `json:"order_id"`
	ProductID      uuid.UUID `json:"product_id"`
	TotalUnits     int       `json:"total_units"`
	BufferUnits    int       `json:"buffer_units"`
	TotalUniqueQRs int       `json:"total_unique_qrs"`
	MastersCount   int       `json:"masters_count"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CreateBatchResponse, error) {
	startedAt := s.now()

	resp, err := s.create(ctx, input)
	switch {
	case err != nil:
		s.metrics.IncBatchCreated("failure")
	case input.DryRun:
		s.metrics.IncBatchCreated("dry_run")
	default:
		s.metrics.IncBatchCreated("success")
		s.metrics.ObserveGeneration(s.now().Sub(startedAt))
	}
	return resp, err
}

func (s *service) create(ctx context.Context, input CreateInput) (*CreateBatchResponse, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.TenantID != input.TenantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another tenant")
	}
	if err := checkOrderConsistency(order, input); err != nil {
		return nil, err
	}

	cfg, err := s.packaging.GetByTenant(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "packaging configuration not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading packaging configuration")
	}

	sized, err := sizing.Compute(order.TotalUnits, cfg.UnitsPerMaster, cfg.BufferPer1000)
	if err != nil {
		return nil, err
	}

	resp := &CreateBatchResponse{
		OrderID:   order.ID,
		ProductID: order.ProductID,
		DryRun:    input.DryRun,
		Sizing: Sizing{
			TotalUnits:     sized.TotalUnits,
			BufferUnits:    sized.BufferUnits,
			TotalUniqueQRs: sized.TotalUniqueQRs,
			MastersCount:   sized.MastersCount,
		},
	}
	if input.DryRun {
		return resp, nil
	}

	codes, err := s.gen.Sequence(sized.TotalUniqueQRs, idgen.CodePrefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating unit codes")
	}
	masters, err := s.gen.Sequence(sized.MastersCount, idgen.MasterPrefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating master identifiers")
	}

	batch := &models.Batch{
		TenantID:       input.TenantID,
		OrderID:        order.ID,
		ProductID:      order.ProductID,
		TotalUnits:     sized.TotalUnits,
		BufferUnits:    sized.BufferUnits,
		TotalUniqueQRs: sized.TotalUniqueQRs,
		MastersCount:   sized.MastersCount,
		Status:         enums.BatchStatusCreated,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateBatch(ctx, batch); err != nil {
			return err
		}
		if err := repo.CreateCodes(ctx, codeRows(batch.ID, codes)); err != nil {
			return err
		}
		if err := repo.CreateMasters(ctx, masterRows(batch.ID, masters)); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventBatchCreated,
			AggregateType: enums.OutboxAggregateBatch,
			AggregateID:   batch.ID,
			TenantID:      input.TenantID,
			Data: BatchCreatedEvent{
				BatchID:        batch.ID,
				OrderID:        order.ID,
				ProductID:      order.ProductID,
				TotalUnits:     sized.TotalUnits,
				BufferUnits:    sized.BufferUnits,
				TotalUniqueQRs: sized.TotalUniqueQRs,
				MastersCount:   sized.MastersCount,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting batch")
	}

	s.metrics.AddCodesGenerated(len(codes) + len(masters))

	batchCtx := ctx
	if s.logg != nil {
		batchCtx = s.logg.WithBatchID(ctx, batch.ID.String())
		s.logg.Info(batchCtx, "batch persisted")
	}

	view := export.BatchView{
		BatchID:        batch.ID,
		OrderCode:      order.Code,
		ProductName:    productName(order),
		TotalUnits:     sized.TotalUnits,
		BufferUnits:    sized.BufferUnits,
		TotalUniqueQRs: sized.TotalUniqueQRs,
		MastersCount:   sized.MastersCount,
		UnitsPerMaster: cfg.UnitsPerMaster,
		BufferPer1000:  cfg.BufferPer1000,
		Codes:          codes,
		Masters:        masters,
		GeneratedAt:    s.now().UTC(),
	}
	results := s.exporter.Run(batchCtx, view)
	if err := export.CombinedError(results); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(batchCtx, "error", err.Error()), "batch export partially failed")
	}

	createdAt := batch.CreatedAt
	resp.BatchID = &batch.ID
	resp.Status = batch.Status.String()
	resp.ExportStatus = newExportStatus(results)
	resp.CreatedAt = &createdAt
	return resp, nil
}

func newExportStatus(results []export.ArtifactResult) *ExportStatus {
	status := &ExportStatus{Artifacts: results}
	for _, r := range results {
		switch r.Kind {
		case enums.ArtifactKindManifest:
			status.CSVGenerated = r.Generated
		case enums.ArtifactKindReport:
			status.PDFGenerated = r.Generated
		}
	}
	return status
}

func (s *service) Get(ctx context.Context, tenantID, batchID uuid.UUID) (*BatchDetail, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant scope required")
	}
	batch, err := s.repo.FindByID(ctx, tenantID, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading batch")
	}
	return &BatchDetail{
		BatchID:   batch.ID,
		OrderID:   batch.OrderID,
		ProductID: batch.ProductID,
		Status:    batch.Status.String(),
		Sizing: Sizing{
			TotalUnits:     batch.TotalUnits,
			BufferUnits:    batch.BufferUnits,
			TotalUniqueQRs: batch.TotalUniqueQRs,
			MastersCount:   batch.MastersCount,
		},
		CodeCount:   batch.TotalUniqueQRs,
		MasterCount: batch.MastersCount,
		CreatedAt:   batch.CreatedAt,
	}, nil
}

// checkOrderConsistency rejects requests whose cross-check fields disagree
// with the immutable order record.
func checkOrderConsistency(order *models.Order, input CreateInput) error {
	if input.ProductID != uuid.Nil && input.ProductID != order.ProductID {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id does not match the order").
			WithDetails(map[string]any{"order_product_id": order.ProductID})
	}
	if input.TotalUnits != 0 && input.TotalUnits != order.TotalUnits {
		return pkgerrors.New(pkgerrors.CodeValidation, "total_units does not match the order").
			WithDetails(map[string]any{"order_total_units": order.TotalUnits})
	}
	return nil
}

func productName(order *models.Order) string {
	if order.Product != nil {
		return order.Product.Name
	}
	return ""
}

func codeRows(batchID uuid.UUID, codes []string) []models.BatchCode {
	rows := make([]models.BatchCode, len(codes))
	for i, code := range codes {
		rows[i] = models.BatchCode{BatchID: batchID, Seq: i, Code: code}
	}
	return rows
}

func masterRows(batchID uuid.UUID, masters []string) []models.BatchMaster {
	rows := make([]models.BatchMaster, len(masters))
	for i, code := range masters {
		rows[i] = models.BatchMaster{BatchID: batchID, Seq: i, Code: code}
	}
	return rows
}
