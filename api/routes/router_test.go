package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/veritrace/qrbatch-backend/api/controllers"
	"github.com/veritrace/qrbatch-backend/internal/batches"
	"github.com/veritrace/qrbatch-backend/internal/orders"
	"github.com/veritrace/qrbatch-backend/internal/packaging"
	"github.com/veritrace/qrbatch-backend/internal/products"
	"github.com/veritrace/qrbatch-backend/internal/tenants"
	pkgauth "github.com/veritrace/qrbatch-backend/pkg/auth"
	"github.com/veritrace/qrbatch-backend/pkg/config"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
	"github.com/veritrace/qrbatch-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubTenantsService struct{}

func (stubTenantsService) IssueToken(ctx context.Context, tenantID uuid.UUID, apiKey string) (*tenants.TokenResponse, error) {
	return &tenants.TokenResponse{Token: "stub", TokenType: "Bearer"}, nil
}

type stubBatchesService struct {
	gets    int
	creates int
}

func (s *stubBatchesService) Create(ctx context.Context, input batches.CreateInput) (*batches.CreateBatchResponse, error) {
	s.creates++
	return &batches.CreateBatchResponse{OrderID: input.OrderID}, nil
}

func (s *stubBatchesService) Get(ctx context.Context, tenantID, batchID uuid.UUID) (*batches.BatchDetail, error) {
	s.gets++
	return &batches.BatchDetail{BatchID: batchID}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderResponse, error) {
	return &orders.OrderResponse{}, nil
}

func (stubOrdersService) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*orders.OrderResponse, error) {
	return &orders.OrderResponse{ID: orderID}, nil
}

func (stubOrdersService) RenderPO(ctx context.Context, tenantID, orderID uuid.UUID) (*orders.RenderPOResponse, error) {
	return &orders.RenderPOResponse{OrderID: orderID}, nil
}

func (stubOrdersService) SendPO(ctx context.Context, tenantID, orderID uuid.UUID) (*orders.SendPOResponse, error) {
	return &orders.SendPOResponse{OrderID: orderID}, nil
}

type stubProductsService struct{}

func (stubProductsService) Create(ctx context.Context, tenantID uuid.UUID, req products.CreateProductRequest) (*products.ProductResponse, error) {
	return &products.ProductResponse{}, nil
}

func (stubProductsService) Get(ctx context.Context, tenantID, productID uuid.UUID) (*products.ProductResponse, error) {
	return &products.ProductResponse{ID: productID}, nil
}

type stubPackagingService struct{}

func (stubPackagingService) Get(ctx context.Context, tenantID uuid.UUID) (*packaging.ConfigResponse, error) {
	return &packaging.ConfigResponse{}, nil
}

func (stubPackagingService) Put(ctx context.Context, tenantID uuid.UUID, req packaging.PutConfigRequest) (*packaging.ConfigResponse, error) {
	return &packaging.ConfigResponse{}, nil
}

type memoryIdempotencyStore struct {
	values map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (s *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "qb:idempotency:" + scope + ":" + id
}

func (s *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "test-secret-test-secret-test-secret",
			Issuer:            "qrbatch-test",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, batchSvc batches.Service, store redis.IdempotencyStore) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		store,
		map[string]controllers.Pinger{"database": stubPinger{}},
		prometheus.NewRegistry(),
		Services{
			Tenants:   stubTenantsService{},
			Batches:   batchSvc,
			Orders:    stubOrdersService{},
			Products:  stubProductsService{},
			Packaging: stubPackagingService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, tenantID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintTenantToken(cfg.JWT, time.Now(), tenantID)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), &stubBatchesService{}, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for health live got %d", resp.Code)
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	router := newTestRouter(testConfig(), &stubBatchesService{}, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestAuthTokenIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), &stubBatchesService{}, nil)
	body := `{"tenant_id":"` + uuid.NewString() + `","api_key":"0123456789abcdef"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for token mint got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestTenantGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig(), &stubBatchesService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestTenantGroupSucceedsWithToken(t *testing.T) {
	cfg := testConfig()
	batchSvc := &stubBatchesService{}
	router := newTestRouter(cfg, batchSvc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for batch get got %d: %s", resp.Code, resp.Body.String())
	}
	if batchSvc.gets != 1 {
		t.Fatalf("expected batch service hit once, got %d", batchSvc.gets)
	}
}

func TestPackagingConfigRequiresToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubBatchesService{}, nil)

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/packaging-config", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/packaging-config", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for packaging get got %d", resp.Code)
	}
}

func batchCreateRequest(t *testing.T, cfg *config.Config, tenantID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, tenantID))
	return req
}

func TestBatchCreateRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	batchSvc := &stubBatchesService{}
	router := newTestRouter(cfg, batchSvc, newMemoryIdempotencyStore())

	body := `{"order_id":"` + uuid.NewString() + `","product_id":"` + uuid.NewString() + `","total_units":100}`
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, batchCreateRequest(t, cfg, uuid.New(), body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Idempotency-Key") {
		t.Fatalf("expected idempotency key error, got %s", resp.Body.String())
	}
	if batchSvc.creates != 0 {
		t.Fatalf("handler must not run without an idempotency key, got %d creates", batchSvc.creates)
	}
}

func TestBatchCreateReplaysStoredResponse(t *testing.T) {
	cfg := testConfig()
	tenantID := uuid.New()
	batchSvc := &stubBatchesService{}
	router := newTestRouter(cfg, batchSvc, newMemoryIdempotencyStore())

	body := `{"order_id":"` + uuid.NewString() + `","product_id":"` + uuid.NewString() + `","total_units":100}`
	var bodies [2]string
	for i := range bodies {
		req := batchCreateRequest(t, cfg, tenantID, body)
		req.Header.Set("Idempotency-Key", "key-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201 on call %d got %d: %s", i+1, resp.Code, resp.Body.String())
		}
		bodies[i] = resp.Body.String()
	}

	if batchSvc.creates != 1 {
		t.Fatalf("expected the second call served from the store, got %d creates", batchSvc.creates)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("replayed response must match the original: %s vs %s", bodies[0], bodies[1])
	}
}

func TestBatchCreateRejectsMissingRequiredFields(t *testing.T) {
	cfg := testConfig()
	batchSvc := &stubBatchesService{}
	router := newTestRouter(cfg, batchSvc, newMemoryIdempotencyStore())

	bodies := []string{
		`{"order_id":"` + uuid.NewString() + `","total_units":100}`,
		`{"order_id":"` + uuid.NewString() + `","product_id":"` + uuid.NewString() + `"}`,
	}
	for _, body := range bodies {
		req := batchCreateRequest(t, cfg, uuid.New(), body)
		req.Header.Set("Idempotency-Key", uuid.NewString())
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for body %s got %d", body, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), "VALIDATION_ERROR") {
			t.Fatalf("expected VALIDATION_ERROR for body %s, got %s", body, resp.Body.String())
		}
	}
	if batchSvc.creates != 0 {
		t.Fatalf("service must not run on invalid input, got %d creates", batchSvc.creates)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	router := newTestRouter(testConfig(), &stubBatchesService{}, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if got := resp.Header().Get("X-Request-Id"); !strings.HasPrefix(got, "req_") {
		t.Fatalf("expected request id header, got %q", got)
	}
}
