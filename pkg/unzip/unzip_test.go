package unzip_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/KretovDmitry/order-workflow/pkg/unzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var me *http.MaxBytesError
			if errors.As(err, &me) {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(body)
	})

	payload := []byte(`{"newStatus":"financial_reviewing","department":"financial"}`)

	tests := []struct {
		name            string
		contentEncoding string
		payload         []byte
		maxBytes        int64
		wantStatus      int
		wantBody        []byte
	}{
		{
			name:            "gzip",
			contentEncoding: "gzip",
			payload:         compress(t, payload),
			wantStatus:      http.StatusOK,
			wantBody:        payload,
		},
		{
			name:       "plain",
			payload:    payload,
			wantStatus: http.StatusOK,
			wantBody:   payload,
		},
		{
			name:            "gzip over limit",
			contentEncoding: "gzip",
			payload:         compress(t, payload),
			maxBytes:        5,
			wantStatus:      http.StatusRequestEntityTooLarge,
		},
		{
			name:       "plain over limit",
			payload:    payload,
			maxBytes:   5,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:            "gzip exactly at limit",
			contentEncoding: "gzip",
			payload:         compress(t, payload),
			maxBytes:        int64(len(payload)),
			wantStatus:      http.StatusOK,
			wantBody:        payload,
		},
		{
			name:            "malformed gzip",
			contentEncoding: "gzip",
			payload:         payload,
			wantStatus:      http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, _ := logger.NewForTest()
			handler := unzip.Middleware(l, tt.maxBytes)(echo)

			r := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(tt.payload))
			if tt.contentEncoding != "" {
				r.Header.Set("Content-Encoding", tt.contentEncoding)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			if tt.wantBody != nil {
				body, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, body)
			}
		})
	}
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()

	var b bytes.Buffer
	wr := gzip.NewWriter(&b)
	_, err := wr.Write(data)
	require.NoError(t, err)
	require.NoError(t, wr.Close()) // DO NOT DEFER HERE

	return b.Bytes()
}
