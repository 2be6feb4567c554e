package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinocontour/internal/shared/testutil"
)

func TestErrorMiddleware_Handler(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCode  int
		wantLevel slog.Level
	}{
		{
			name: "successful request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			},
			wantCode:  http.StatusOK,
			wantLevel: slog.LevelInfo,
		},
		{
			name: "client error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
			},
			wantCode:  http.StatusUnprocessableEntity,
			wantLevel: slog.LevelWarn,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantCode:  http.StatusInternalServerError,
			wantLevel: slog.LevelError,
		},
		{
			name: "panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			},
			wantCode:  http.StatusInternalServerError,
			wantLevel: slog.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/plots?strict=true", nil)
			rec := httptest.NewRecorder()
			middleware.RequestID(mw.Handler(tt.handler)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			record, ok := logs.Find("http request")
			require.True(t, ok)
			assert.Equal(t, tt.wantLevel, record.Level)
			assert.Equal(t, int64(tt.wantCode), record.Attrs["status"])
			assert.Equal(t, "/api/v1/plots", record.Attrs["path"])
			assert.Equal(t, "strict=true", record.Attrs["query"])
			assert.Equal(t, "error_middleware", record.Attrs["component"])
			assert.NotEmpty(t, record.Attrs["request_id"])
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := RecoveryMiddleware(NewErrorHandler(logger, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("render exploded")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plots/options", nil)
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { handler.ServeHTTP(rec, req) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "stack")

	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}
