package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/kinetic-api/internal/api/shared"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/service"
	"github.com/phrazzld/kinetic-api/internal/service/auth"
	"github.com/phrazzld/kinetic-api/internal/store"
	"github.com/phrazzld/kinetic-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err         error
		wantStatus  int
		wantMessage string
	}{
		{ErrUnauthenticated, http.StatusUnauthorized, "Authentication required"},
		{auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{auth.ErrMissingLearner, http.StatusUnauthorized, "Invalid token"},
		{service.ErrNotOwned, http.StatusForbidden, "You do not own this quiz session"},
		{fmt.Errorf("%w: x", service.ErrSlideNotFound), http.StatusNotFound, "Slide not found"},
		{fmt.Errorf("%w: %w", service.ErrSessionNotFound, store.ErrSessionNotFound), http.StatusNotFound, "Quiz session not found"},
		{store.ErrInteractionNotFound, http.StatusNotFound, "Not found"},
		{store.ErrConflict, http.StatusConflict, "Concurrent update, please retry"},
		{service.ErrWrongSlideKind, http.StatusUnprocessableEntity, "Operation not supported by this slide"},
		{fmt.Errorf("%w: %w", service.ErrInvalidInteraction, domain.ErrValidation), http.StatusBadRequest, "Invalid interaction"},
		{domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), http.StatusBadRequest, "Invalid ID"},
		{service.NewServiceError("interaction", "record", task.ErrQueueFull), http.StatusServiceUnavailable, "Service busy, please retry"},
		{errors.New("dial tcp 10.0.0.3:5432: refused"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantStatus, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.wantMessage, GetSafeErrorMessage(tc.err))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestHandleAPIErrorDefaultMessage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.SetTraceID(req.Context()))

	rr := httptest.NewRecorder()
	HandleAPIError(rr, req, errors.New("password=hunter2 leaked"), "Failed to load slide")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decode[shared.ErrorResponse](t, rr)
	assert.Equal(t, "Failed to load slide", body.Error)
	assert.NotContains(t, rr.Body.String(), "hunter2")

	rr = httptest.NewRecorder()
	HandleAPIError(rr, req, service.ErrSlideNotFound, "Failed to load slide")
	assert.Equal(t, "Slide not found", decode[shared.ErrorResponse](t, rr).Error, "mapped errors keep their message")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.Validate.Struct(&RecordInteractionRequest{SlideID: "push"})
	require.Error(t, err)
	assert.Equal(t, "Invalid interaction_id: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
