package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ctx := types.WithRequestID(context.Background(), "req_01ABC")

	WriteSuccessStatus(ctx, w, http.StatusCreated, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var envelope struct {
		OK        bool              `json:"ok"`
		Data      map[string]string `json:"data"`
		RequestID string            `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.OK)
	assert.Equal(t, "world", envelope.Data["hello"])
	assert.Equal(t, "req_01ABC", envelope.RequestID)
}

func TestWriteErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ctx := types.WithRequestID(context.Background(), "req_01DEF")

	WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodePrecondition, "packaging config invalid"))

	require.Equal(t, http.StatusPreconditionFailed, w.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.OK)
	assert.Equal(t, "PRECONDITION_FAILED", envelope.Error.Code)
	assert.Equal(t, "packaging config invalid", envelope.Error.Message)
	assert.Equal(t, "req_01DEF", envelope.RequestID)
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeInternal, "pq: relation does not exist"))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
	assert.Equal(t, "internal server error", envelope.Error.Message)
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(context.Background(), nil, w, assertedErr{})

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

type assertedErr struct{}

func (assertedErr) Error() string { return "boom" }
