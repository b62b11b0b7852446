package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryIdempotencyStore struct {
	values map[string]string
}

func newMemoryStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
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

func idempotentHandler(calls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemoryStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(idempotentHandler(&calls))

	body := `{"order_id":"abc"}`
	for i := 0; i < 2; i++ {
		r := httptest.NewRequest("POST", "/api/v1/batches", strings.NewReader(body))
		r.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	}

	assert.Equal(t, int32(1), calls.Load(), "second call must be served from the store")
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newMemoryStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(idempotentHandler(&calls))

	first := httptest.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"order_id":"abc"}`))
	first.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{"order_id":"xyz"}`))
	second.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, second)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "IDEMPOTENT_REPLAY")
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotencyRequiresHeaderOnGuardedRoutes(t *testing.T) {
	store := newMemoryStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(idempotentHandler(&calls))

	r := httptest.NewRequest("POST", "/api/v1/batches", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), calls.Load())
}

func TestIdempotencyIgnoresUnguardedRoutes(t *testing.T) {
	store := newMemoryStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(idempotentHandler(&calls))

	r := httptest.NewRequest("GET", "/api/v1/batches/abc", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(1), calls.Load())
}
