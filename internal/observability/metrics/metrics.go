package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once          sync.Once
	metricsRouter *chi.Mux

	defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)
	receiveDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqs_receive_duration_seconds",
			Help:    "Histogram of SQS long-poll receive durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"queue", "outcome"},
	)
	clientInitFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqs_client_init_failures_total",
			Help: "Number of failed attempts to build the SQS client.",
		},
	)
	queueResolveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqs_queue_resolve_failures_total",
			Help: "Number of failed queue URL lookups.",
		},
		[]string{"queue"},
	)
	messagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqs_messages_received_total",
			Help: "Number of messages received from SQS.",
		},
		[]string{"queue"},
	)
	messagesForwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqs_messages_forwarded_total",
			Help: "Number of messages fired on the event bus, by outcome.",
		},
		[]string{"queue", "tag", "outcome"},
	)
	messageDecodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqs_message_decode_failures_total",
			Help: "Number of message bodies that failed to decode and were forwarded raw.",
		},
		[]string{"queue"},
	)
	messageDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqs_message_deletes_total",
			Help: "Number of SQS delete calls, by outcome.",
		},
		[]string{"queue", "outcome"},
	)
)

// Init registers the collectors and serves them on addr.
func Init(addr string) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(addr)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsAddr string) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

func registerMetrics() {
	prometheus.MustRegister(
		httpRequestDurationHistogram,
		receiveDurationHistogram,
		clientInitFailures,
		queueResolveFailures,
		messagesReceived,
		messagesForwarded,
		messageDecodeFailures,
		messageDeletes,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// StartReceiveDurationTimer starts a timer around a single long-poll receive.
func StartReceiveDurationTimer(queue string) func(outcome Outcome) {
	startTime := time.Now()
	return func(outcome Outcome) {
		receiveDurationHistogram.WithLabelValues(queue, outcome.String()).Observe(time.Since(startTime).Seconds())
	}
}

func RecordClientInitFailure() {
	clientInitFailures.Inc()
}

func RecordQueueResolveFailure(queue string) {
	queueResolveFailures.WithLabelValues(queue).Inc()
}

func RecordMessagesReceived(queue string, count int) {
	messagesReceived.WithLabelValues(queue).Add(float64(count))
}

func RecordMessageForwarded(queue, tag string, outcome Outcome) {
	messagesForwarded.WithLabelValues(queue, tag, outcome.String()).Inc()
}

func RecordMessageDecodeFailure(queue string) {
	messageDecodeFailures.WithLabelValues(queue).Inc()
}

func RecordMessageDelete(queue string, outcome Outcome) {
	messageDeletes.WithLabelValues(queue, outcome.String()).Inc()
}
