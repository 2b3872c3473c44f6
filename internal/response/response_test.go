// file: internal/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"campushire/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorEnvelopeCarriesTopLevelMessage(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/jobs/999", nil)

	builder.Error(w, r, services.NewNotFoundError("job not found"))

	assert.Equal(t, 404, w.Code)
	body := decodeEnvelope(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "job not found", body.Message, "the error detail doubles as the top-level message")
	require.NotNil(t, body.Error)
	assert.Equal(t, "job not found", body.Error.Message)
}

func TestErrorEnvelopeHidesInternalDetail(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/jobs", nil)

	builder.Error(w, r, errors.New("pq: connection refused"))

	assert.Equal(t, 500, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "an internal error occurred", body.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestPlainErrorHelpersSetMessage(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/jobs", nil)

	builder.BadRequest(w, r, "page must be a positive integer")

	assert.Equal(t, 400, w.Code)
	body := decodeEnvelope(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "page must be a positive integer", body.Message)
}

func TestSuccessEnvelopeKeepsItsMessage(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/jobs", nil)

	builder.Success(w, r, "jobs retrieved", []string{})

	assert.Equal(t, 200, w.Code)
	body := decodeEnvelope(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "jobs retrieved", body.Message)
	assert.Nil(t, body.Error)
}
