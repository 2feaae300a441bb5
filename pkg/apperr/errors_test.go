package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		err    *Error
		kind   Kind
		status int
		code   string
	}{
		{NewValidationError("cost", "must be positive"), KindValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{NewArtifactError("model.gob", fs.ErrNotExist), KindArtifact, http.StatusInternalServerError, "ARTIFACT_ERROR"},
		{NewIngestionError("read", nil), KindIngestion, http.StatusInternalServerError, "INGESTION_ERROR"},
		{NewTransformError("schema", nil), KindTransform, http.StatusInternalServerError, "TRANSFORM_ERROR"},
		{NewTrainingError("floor", nil), KindTraining, http.StatusInternalServerError, "TRAINING_ERROR"},
		{NewInternalError("boom", nil), KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)

			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.kind, KindOf(wrapped))
			assert.True(t, IsKind(wrapped, tt.kind))
		})
	}
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestErrorChain(t *testing.T) {
	err := NewArtifactError("model.gob", fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "artifact model.gob unavailable: file does not exist", err.Error())
	assert.Equal(t, "model.gob", err.Details["path"])
	assert.False(t, IsKind(err, KindValidation))

	v := NewValidationError("city", `unknown city "Atlantis"`)
	assert.Equal(t, `invalid city: unknown city "Atlantis"`, v.Error())
	assert.Equal(t, "city", v.Details["field"])
}

func TestNewResponse(t *testing.T) {
	status, resp := NewResponse(NewValidationError("cost", "must be positive"), "req-1")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "VALIDATION_ERROR", resp.ErrorCode)
	assert.Equal(t, "invalid cost: must be positive", resp.Message)
	assert.Equal(t, "cost", resp.Details["field"])
	assert.Equal(t, "req-1", resp.RequestID)

	for _, err := range []error{
		NewArtifactError("/srv/artifacts/model.gob", fs.ErrNotExist),
		NewTransformError("expected 7 columns", nil),
		errors.New("raw failure"),
	} {
		status, resp := NewResponse(err, "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "INTERNAL_ERROR", resp.ErrorCode)
		assert.Equal(t, "internal server error", resp.Message)
		assert.Nil(t, resp.Details)
	}
}
