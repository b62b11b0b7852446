package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
)

type samplePayload struct {
	OrderID    string `json:"order_id" validate:"required,uuid"`
	TotalUnits int    `json:"total_units" validate:"omitempty,gt=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(
		`{"order_id":"0b6a5c7e-6f3f-4d2a-9a44-0a1b2c3d4e5f","total_units":2500}`))

	var dest samplePayload
	require.NoError(t, DecodeJSONBody(r, &dest))
	assert.Equal(t, 2500, dest.TotalUnits)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(
		`{"order_id":"0b6a5c7e-6f3f-4d2a-9a44-0a1b2c3d4e5f","bogus":true}`))

	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyReportsFieldMessages(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(
		`{"order_id":"not-a-uuid","total_units":-5}`))

	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid uuid", details["order_id"])
	assert.Equal(t, "must be greater than 0", details["total_units"])
}
