package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/babylonchain/sqs-events-service/internal/eventbus"
	"github.com/babylonchain/sqs-events-service/internal/observability/metrics"
	"github.com/babylonchain/sqs-events-service/internal/observability/tracing"
	"github.com/babylonchain/sqs-events-service/internal/queue/client"
	"github.com/babylonchain/sqs-events-service/internal/types"
)

const (
	// MessageKey is the single key of every forwarded event payload.
	MessageKey = "message"

	deleteTimeout = 5 * time.Second
)

type Outcome int

const (
	// Deleted means the message was forwarded and removed from the queue.
	Deleted Outcome = iota
	// DeleteFailed means the message was forwarded but stays on the queue
	// until its visibility timeout expires.
	DeleteFailed
	// ForwardFailed means the publisher rejected the event; the message is
	// left for redelivery.
	ForwardFailed
)

func (o Outcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case DeleteFailed:
		return "delete_failed"
	case ForwardFailed:
		return "forward_failed"
	default:
		return "unknown"
	}
}

// Dispatcher decodes queue messages and fires them on the event bus.
type Dispatcher struct {
	publisher eventbus.Publisher
	queueName string
	tag       string
	format    types.MessageFormat
}

func NewDispatcher(publisher eventbus.Publisher, queueName, tag string, format types.MessageFormat) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		queueName: queueName,
		tag:       tag,
		format:    format,
	}
}

// Decode returns the value forwarded for body. Only the json format parses
// the body; a body that is not valid JSON is forwarded as the raw string.
func (d *Dispatcher) Decode(ctx context.Context, body string) interface{} {
	if d.format != types.JSONFormat {
		return body
	}

	decoded, err := decodeJSON(body)
	if err != nil {
		tracing.Logger(ctx).Warn().Err(err).
			Str("queueName", d.queueName).
			Msg("failed to decode message body as JSON, forwarding it raw")
		metrics.RecordMessageDecodeFailure(d.queueName)
		return body
	}
	return decoded
}

// Dispatch forwards msg under the configured tag and deletes it from the
// queue once the publisher accepted it.
func (d *Dispatcher) Dispatch(ctx context.Context, c client.QueueClient, queueURL string, msg client.QueueMessage) Outcome {
	logger := tracing.Logger(ctx).With().
		Str("queueName", d.queueName).
		Str("messageId", msg.MessageID).
		Str("tag", d.tag).
		Logger()

	data := map[string]interface{}{MessageKey: d.Decode(ctx, msg.Body)}
	if err := d.publisher.FireEvent(ctx, d.tag, data); err != nil {
		logger.Error().Err(err).Msg("failed to fire event, leaving message on the queue")
		metrics.RecordMessageForwarded(d.queueName, d.tag, metrics.Error)
		return ForwardFailed
	}
	metrics.RecordMessageForwarded(d.queueName, d.tag, metrics.Success)
	logger.Debug().Msg("fired event for message")

	// A forwarded message is deleted even when ctx is already cancelled.
	deleteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()

	if err := c.DeleteMessage(deleteCtx, queueURL, msg.Receipt); err != nil {
		logger.Warn().Err(err).Msg("failed to delete message from queue")
		metrics.RecordMessageDelete(d.queueName, metrics.Error)
		return DeleteFailed
	}
	metrics.RecordMessageDelete(d.queueName, metrics.Success)
	return Deleted
}

// decodeJSON parses a single JSON document. Integers keep their exact value
// as int64, or as json.Number when they overflow int64.
func decodeJSON(body string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return convertNumbers(decoded), nil
}

func convertNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			t[k] = convertNumbers(item)
		}
		return t
	case []interface{}:
		for i, item := range t {
			t[i] = convertNumbers(item)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if !strings.ContainsAny(t.String(), ".eE") {
			return t
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t
	default:
		return v
	}
}
