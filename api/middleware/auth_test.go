package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/veritrace/qrbatch-backend/pkg/auth"
	"github.com/veritrace/qrbatch-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "qrbatch-test",
		ExpirationMinutes: 15,
	}
}

func TestTenantAuthSeedsContext(t *testing.T) {
	cfg := testJWTConfig()
	tenantID := uuid.New()
	token, err := pkgauth.MintTenantToken(cfg, time.Now(), tenantID)
	require.NoError(t, err)

	var seen uuid.UUID
	handler := TenantAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TenantIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest("GET", "/api/v1/batches/abc", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, tenantID, seen)
}

func TestTenantAuthRejectsMissingToken(t *testing.T) {
	handler := TenantAuth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest("GET", "/api/v1/batches/abc", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantAuthRejectsGarbageToken(t *testing.T) {
	handler := TenantAuth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest("GET", "/api/v1/batches/abc", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
