package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name"  validate:"required"`
	Count int    `json:"count" validate:"gte=0,lte=10"`
}

type selfValidating struct {
	OK bool `json:"ok"`
}

func (s selfValidating) Validate() error {
	if !s.OK {
		return errors.New("not ok")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		isEmpty bool
	}{
		{name: "valid", body: `{"name":"a","count":2}`},
		{name: "empty body", body: ``, wantErr: true, isEmpty: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "unknown field", body: `{"name":"a","extra":1}`, wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", MaxRequestBodyBytes) + `"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var got sampleRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &got)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, sampleRequest{Name: "a", Count: 2}, got)
				return
			}
			require.Error(t, err)
			if tc.isEmpty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "a", Count: 3}))
	assert.Error(t, ValidateRequest(&sampleRequest{Count: 3}))
	assert.Error(t, ValidateRequest(&sampleRequest{Name: "a", Count: 11}))

	assert.NoError(t, ValidateRequest(selfValidating{OK: true}))
	assert.EqualError(t, ValidateRequest(selfValidating{}), "not ok")
}
