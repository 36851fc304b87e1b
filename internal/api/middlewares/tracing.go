package middlewares

import (
	"net/http"

	"github.com/babylonchain/sqs-events-service/internal/observability/tracing"
)

// TraceIdHeader echoes the request's trace id so callers can match it
// against the service logs.
const TraceIdHeader = "X-Trace-Id"

func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.AttachTracingIntoContext(r.Context())
		if traceId, ok := ctx.Value(tracing.TraceIdKey).(string); ok {
			w.Header().Set(TraceIdHeader, traceId)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
