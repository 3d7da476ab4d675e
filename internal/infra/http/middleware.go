package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/infra/logging"
)

const traceHeader = "X-Trace-Id"

// requestContext puts a trace id into the logging context, echoes it in the
// response and logs the finished request with that id attached.
// An incoming X-Trace-Id is reused.
func requestContext(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid := r.Header.Get(traceHeader)
			if tid == "" {
				tid = uuid.NewString()
			}
			ctx := logging.WithTraceID(r.Context(), tid)
			w.Header().Set(traceHeader, tid)

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			logging.With(ctx, logger).Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("admin request")
		})
	}
}
