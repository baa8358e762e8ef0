package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithJSON(rr, req, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rr.Body.String())
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	rr := httptest.NewRecorder()

	RespondWithError(rr, req, http.StatusNotFound, "Slide not found")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Slide not found", body.Error)
	assert.Equal(t, GetTraceID(req.Context()), body.TraceID)
	assert.Zero(t, body.Code, "status code is not serialized")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLevel: "WARN"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{
			name:      "elevated client error",
			status:    http.StatusUnauthorized,
			opts:      []ResponseOption{WithElevatedLogLevel()},
			wantLevel: "WARN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			log, buf := logger.NewTestLogger()
			req := httptest.NewRequest(http.MethodPost, "/api/interactions", nil)
			req = req.WithContext(logger.WithContext(SetTraceID(req.Context()), log))
			rr := httptest.NewRecorder()

			err := errors.New("dial postgres://kinetic:hunter2@db:5432/kinetic failed")
			RespondWithErrorAndLog(rr, req, tc.status, "Something went wrong", err, tc.opts...)

			assert.Equal(t, tc.status, rr.Code)
			assert.NotContains(t, rr.Body.String(), "postgres")

			entries, parseErr := buf.Entries()
			require.NoError(t, parseErr)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.wantLevel, entries[0]["level"])
			assert.Equal(t, "Something went wrong", entries[0]["user_message"])
			assert.NotContains(t, entries[0]["error"], "hunter2")
		})
	}
}
