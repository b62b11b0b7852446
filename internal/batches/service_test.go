package batches

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/veritrace/qrbatch-backend/internal/export"
	"github.com/veritrace/qrbatch-backend/pkg/db/models"
	"github.com/veritrace/qrbatch-backend/pkg/enums"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/outbox"
)

type stubBatchRepo struct {
	batch       *models.Batch
	codes       []models.BatchCode
	masters     []models.BatchMaster
	createErr   error
	findByID    func(ctx context.Context, tenantID, batchID uuid.UUID) (*models.Batch, error)
	inTxCreates int
}

func (s *stubBatchRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubBatchRepo) CreateBatch(_ context.Context, batch *models.Batch) error {
	if s.createErr != nil {
		return s.createErr
	}
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.CreatedAt = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s.batch = batch
	s.inTxCreates++
	return nil
}

func (s *stubBatchRepo) CreateCodes(_ context.Context, codes []models.BatchCode) error {
	s.codes = codes
	return nil
}

func (s *stubBatchRepo) CreateMasters(_ context.Context, masters []models.BatchMaster) error {
	s.masters = masters
	return nil
}

func (s *stubBatchRepo) FindByID(ctx context.Context, tenantID, batchID uuid.UUID) (*models.Batch, error) {
	if s.findByID != nil {
		return s.findByID(ctx, tenantID, batchID)
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOrderFinder struct {
	order *models.Order
	err   error
}

func (s *stubOrderFinder) FindByID(context.Context, uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

type stubPackagingFinder struct {
	cfg *models.PackagingConfig
	err error
}

func (s *stubPackagingFinder) GetByTenant(context.Context, uuid.UUID) (*models.PackagingConfig, error) {
	return s.cfg, s.err
}

type stubTxRunner struct {
	err   error
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubGenerator struct {
	calls []int
	err   error
}

func (s *stubGenerator) Sequence(n int, prefix string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls = append(s.calls, n)
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%05d", prefix, i)
	}
	return out, nil
}

type stubExporter struct {
	view    export.BatchView
	results []export.ArtifactResult
	calls   int
}

func (s *stubExporter) Run(_ context.Context, view export.BatchView) []export.ArtifactResult {
	s.calls++
	s.view = view
	return s.results
}

type serviceFixture struct {
	repo      *stubBatchRepo
	orders    *stubOrderFinder
	packaging *stubPackagingFinder
	tx        *stubTxRunner
	outbox    *stubOutbox
	gen       *stubGenerator
	exporter  *stubExporter
	tenantID  uuid.UUID
	order     *models.Order
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	tenantID := uuid.New()
	order := &models.Order{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Code:       "PO-1001",
		ProductID:  uuid.New(),
		TotalUnits: 2500,
		Status:     enums.OrderStatusCreated,
		Product:    &models.Product{Name: "Vitamin C Serum"},
	}
	return &serviceFixture{
		repo:      &stubBatchRepo{},
		orders:    &stubOrderFinder{order: order},
		packaging: &stubPackagingFinder{cfg: &models.PackagingConfig{TenantID: tenantID, UnitsPerMaster: 200, BufferPer1000: 10}},
		tx:        &stubTxRunner{},
		outbox:    &stubOutbox{},
		gen:       &stubGenerator{},
		exporter: &stubExporter{results: []export.ArtifactResult{
			{Kind: enums.ArtifactKindManifest, Generated: true, Location: "https://example.test/manifest.csv"},
			{Kind: enums.ArtifactKindReport, Generated: true, Location: "https://example.test/report.pdf"},
		}},
		tenantID: tenantID,
		order:    order,
	}
}

func (f *serviceFixture) service(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      f.repo,
		Orders:    f.orders,
		Packaging: f.packaging,
		Tx:        f.tx,
		Outbox:    f.outbox,
		Generator: f.gen,
		Exporter:  f.exporter,
		Now:       func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func TestCreatePersistsBatchAndExports(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t)

	resp, err := svc.Create(context.Background(), CreateInput{
		TenantID: f.tenantID,
		OrderID:  f.order.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.BatchID)

	assert.Equal(t, Sizing{TotalUnits: 2500, BufferUnits: 20, TotalUniqueQRs: 2520, MastersCount: 13}, resp.Sizing)
	assert.Equal(t, "created", resp.Status)
	assert.False(t, resp.DryRun)
	require.NotNil(t, resp.ExportStatus)
	assert.True(t, resp.ExportStatus.CSVGenerated)
	assert.True(t, resp.ExportStatus.PDFGenerated)
	require.Len(t, resp.ExportStatus.Artifacts, 2)

	assert.Equal(t, []int{2520, 13}, f.gen.calls)
	assert.Equal(t, 1, f.tx.calls)
	require.Len(t, f.repo.codes, 2520)
	require.Len(t, f.repo.masters, 13)
	assert.Equal(t, 0, f.repo.codes[0].Seq)
	assert.Equal(t, *resp.BatchID, f.repo.codes[0].BatchID)

	require.Len(t, f.outbox.events, 1)
	event := f.outbox.events[0]
	assert.Equal(t, enums.OutboxEventBatchCreated, event.EventType)
	assert.Equal(t, enums.OutboxAggregateBatch, event.AggregateType)
	assert.Equal(t, *resp.BatchID, event.AggregateID)
	assert.Equal(t, f.tenantID, event.TenantID)

	assert.Equal(t, 1, f.exporter.calls)
	assert.Equal(t, "PO-1001", f.exporter.view.OrderCode)
	assert.Equal(t, "Vitamin C Serum", f.exporter.view.ProductName)
	assert.Equal(t, 200, f.exporter.view.UnitsPerMaster)
	assert.Len(t, f.exporter.view.Codes, 2520)
	assert.Len(t, f.exporter.view.Masters, 13)
}

func TestCreateDryRunSkipsPersistenceAndExport(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t)

	resp, err := svc.Create(context.Background(), CreateInput{
		TenantID: f.tenantID,
		OrderID:  f.order.ID,
		DryRun:   true,
	})
	require.NoError(t, err)

	assert.True(t, resp.DryRun)
	assert.Nil(t, resp.BatchID)
	assert.Nil(t, resp.ExportStatus)
	assert.Equal(t, Sizing{TotalUnits: 2500, BufferUnits: 20, TotalUniqueQRs: 2520, MastersCount: 13}, resp.Sizing)

	assert.Empty(t, f.gen.calls)
	assert.Equal(t, 0, f.tx.calls)
	assert.Equal(t, 0, f.exporter.calls)
}

func TestCreateOrderNotFound(t *testing.T) {
	f := newServiceFixture(t)
	f.orders.order = nil
	f.orders.err = gorm.ErrRecordNotFound
	svc := f.service(t)

	_, err := svc.Create(context.Background(), CreateInput{TenantID: f.tenantID, OrderID: uuid.New()})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateForeignTenantOrderIsForbidden(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t)

	_, err := svc.Create(context.Background(), CreateInput{TenantID: uuid.New(), OrderID: f.order.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Equal(t, 0, f.tx.calls)
}

func TestCreateMissingPackagingConfig(t *testing.T) {
	f := newServiceFixture(t)
	f.packaging.cfg = nil
	f.packaging.err = gorm.ErrRecordNotFound
	svc := f.service(t)

	_, err := svc.Create(context.Background(), CreateInput{TenantID: f.tenantID, OrderID: f.order.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateInvalidPackagingConfigIsPrecondition(t *testing.T) {
	f := newServiceFixture(t)
	f.packaging.cfg.UnitsPerMaster = 0
	svc := f.service(t)

	_, err := svc.Create(context.Background(), CreateInput{TenantID: f.tenantID, OrderID: f.order.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodePrecondition, typed.Code())
	assert.Empty(t, f.gen.calls, "generator must not run after a precondition failure")
	assert.Equal(t, 0, f.tx.calls)
}

func TestCreateMismatchedCrossChecksAreValidationErrors(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t)

	_, err := svc.Create(context.Background(), CreateInput{
		TenantID:  f.tenantID,
		OrderID:   f.order.ID,
		ProductID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Create(context.Background(), CreateInput{
		TenantID:   f.tenantID,
		OrderID:    f.order.ID,
		TotalUnits: 99,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateStorageFailureAbortsRequest(t *testing.T) {
	f := newServiceFixture(t)
	f.tx.err = errors.New("connection reset")
	svc := f.service(t)

	_, err := svc.Create(context.Background(), CreateInput{TenantID: f.tenantID, OrderID: f.order.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.Equal(t, 0, f.exporter.calls, "export must not run when the batch never committed")
}

func TestCreateSurvivesPartialExportFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.exporter.results = []export.ArtifactResult{
		{Kind: enums.ArtifactKindManifest, Error: "bucket unavailable"},
		{Kind: enums.ArtifactKindReport, Generated: true, Location: "https://example.test/report.pdf"},
	}
	svc := f.service(t)

	resp, err := svc.Create(context.Background(), CreateInput{TenantID: f.tenantID, OrderID: f.order.ID})
	require.NoError(t, err, "export failure must not fail the request")
	require.NotNil(t, resp.BatchID)
	require.NotNil(t, resp.ExportStatus)
	assert.False(t, resp.ExportStatus.CSVGenerated)
	assert.True(t, resp.ExportStatus.PDFGenerated)
	require.Len(t, resp.ExportStatus.Artifacts, 2)
	assert.Contains(t, resp.ExportStatus.Artifacts[0].Error, "bucket unavailable")
}

func TestCreateGeneratorFailureIsInternal(t *testing.T) {
	f := newServiceFixture(t)
	f.gen.err = errors.New("duplicate identifier")
	svc := f.service(t)

	_, err := svc.Create(context.Background(), CreateInput{TenantID: f.tenantID, OrderID: f.order.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.Equal(t, 0, f.tx.calls)
}

func TestGetScopesByTenant(t *testing.T) {
	f := newServiceFixture(t)
	batchID := uuid.New()
	f.repo.findByID = func(_ context.Context, tenantID, id uuid.UUID) (*models.Batch, error) {
		if tenantID != f.tenantID || id != batchID {
			return nil, gorm.ErrRecordNotFound
		}
		return &models.Batch{
			ID:             batchID,
			TenantID:       tenantID,
			OrderID:        f.order.ID,
			ProductID:      f.order.ProductID,
			TotalUnits:     2500,
			BufferUnits:    20,
			TotalUniqueQRs: 2520,
			MastersCount:   13,
			Status:         enums.BatchStatusCreated,
		}, nil
	}
	svc := f.service(t)

	detail, err := svc.Get(context.Background(), f.tenantID, batchID)
	require.NoError(t, err)
	assert.Equal(t, batchID, detail.BatchID)
	assert.Equal(t, 2520, detail.CodeCount)
	assert.Equal(t, 13, detail.MasterCount)

	_, err = svc.Get(context.Background(), uuid.New(), batchID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
