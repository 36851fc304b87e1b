package tracing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type TracingContextKey string

const TracingInfoKey = TracingContextKey("requestTracingInfo")
const TraceIdKey = TracingContextKey("requestTraceId")

type SpanDetail struct {
	Name     string
	Duration int64
}

type TracingInfo struct {
	SpanDetails []SpanDetail
}

func (t *TracingInfo) addSpanDetail(detail SpanDetail) {
	t.SpanDetails = append(t.SpanDetails, detail)
}

// AttachTracingIntoContext tags ctx with a fresh trace id, an empty
// TracingInfo and a logger carrying the trace id. Used per HTTP request and
// per queue fetch cycle.
func AttachTracingIntoContext(ctx context.Context) context.Context {
	traceId := uuid.NewString()
	ctx = context.WithValue(ctx, TraceIdKey, traceId)
	ctx = context.WithValue(ctx, TracingInfoKey, &TracingInfo{})

	logger := Logger(ctx).With().Str("traceId", traceId).Logger()
	return logger.WithContext(ctx)
}

// Logger returns the logger attached to ctx, or the global logger when none
// is attached.
func Logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

func GetTracingInfo(ctx context.Context) *TracingInfo {
	tracingInfo, _ := ctx.Value(TracingInfoKey).(*TracingInfo)
	return tracingInfo
}

func WrapWithSpan[Result any](ctx context.Context, name string, next func() (Result, error)) (Result, error) {
	tracingInfo := GetTracingInfo(ctx)
	if tracingInfo == nil {
		Logger(ctx).Debug().Str("span", name).Msg("TracingInfo not found in the context")
	}

	startTime := time.Now()
	defer func() {
		if tracingInfo != nil {
			duration := time.Since(startTime).Milliseconds()
			tracingInfo.addSpanDetail(SpanDetail{Name: name, Duration: duration})
		}
	}()

	return next()
}
