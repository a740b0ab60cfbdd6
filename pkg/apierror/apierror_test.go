package apierror_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tenancy/pkg/apierror"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		err        *apierror.Error
		wantStatus int
		wantCode   apierror.Code
		wantHeader map[string]string
	}{
		{
			name:       "unauthorized sets challenge",
			err:        apierror.Unauthorized(""),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apierror.CodeUnauthorized,
			wantHeader: map[string]string{"WWW-Authenticate": `Bearer error="invalid_token"`},
		},
		{
			name:       "unavailable sets retry after",
			err:        apierror.ServiceUnavailable(2),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   apierror.CodeServiceUnavailable,
			wantHeader: map[string]string{"Retry-After": "2"},
		},
		{
			name:       "not found",
			err:        apierror.NotFound("Invite"),
			wantStatus: http.StatusNotFound,
			wantCode:   apierror.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.err.WriteJSON(rec, "req-1")

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			for k, v := range tt.wantHeader {
				require.Equal(t, v, rec.Header().Get(k))
			}

			var body apierror.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.wantCode, body.Code)
			require.Equal(t, string(tt.wantCode), body.Error)
			require.Equal(t, "req-1", body.RequestID)
		})
	}
}

func TestFromError(t *testing.T) {
	require.Nil(t, apierror.FromError(nil))

	wrapped := fmt.Errorf("handler: %w", apierror.Conflict("slug taken"))
	require.Equal(t, http.StatusConflict, apierror.FromError(wrapped).Status)

	cause := errors.New("disk on fire")
	got := apierror.FromError(cause)
	require.Equal(t, http.StatusInternalServerError, got.Status)
	require.ErrorIs(t, got, cause)
	require.NotContains(t, got.Message, "disk")
}
