package unzip

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KretovDmitry/order-workflow/pkg/logger"
)

// DefaultMaxBodyBytes caps a request body after decompression.
const DefaultMaxBodyBytes = 1 << 20

// gzipBody replaces Read of the original body with a decompressing one
// and closes both readers.
type gzipBody struct {
	body io.ReadCloser
	zr   *gzip.Reader
}

func newGzipBody(body io.ReadCloser) (*gzipBody, error) {
	zr, err := gzip.NewReader(body)
	if err != nil {
		return nil, fmt.Errorf("new gzip reader: %w", err)
	}

	return &gzipBody{body: body, zr: zr}, nil
}

func (b *gzipBody) Read(p []byte) (int, error) {
	return b.zr.Read(p)
}

func (b *gzipBody) Close() error {
	if err := b.zr.Close(); err != nil {
		_ = b.body.Close()
		return fmt.Errorf("close gzip reader: %w", err)
	}
	return b.body.Close()
}

// Middleware transparently decompresses gzip encoded request bodies.
// Reading past maxBytes of plain or decompressed body fails with
// *http.MaxBytesError; maxBytes <= 0 means DefaultMaxBodyBytes.
func Middleware(l logger.Logger, maxBytes int64) func(next http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
				next.ServeHTTP(w, r)
				return
			}

			body, err := newGzipBody(r.Body)
			if err != nil {
				l.With(r.Context()).Errorf("unzip request body: %s", err)
				http.Error(w, "malformed gzip body", http.StatusBadRequest)
				return
			}
			defer body.Close()

			r.Body = http.MaxBytesReader(w, body, maxBytes)
			r.Header.Del("Content-Encoding")
			r.ContentLength = -1

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(f)
	}
}
