package accesslog

import (
	"net/http"
	"time"

	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns a middleware that records an access log message for every HTTP request being processed.
func Handler(l logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			l.With(r.Context(),
				"duration", time.Since(start).Milliseconds(),
				"status", status,
				"size", ww.BytesWritten(),
			).Infof("%s %s %s", r.Method, r.URL.Path, r.Proto)
		}
		return http.HandlerFunc(f)
	}
}
