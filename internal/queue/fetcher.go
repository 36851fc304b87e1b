package queue

import (
	"context"

	"github.com/babylonchain/sqs-events-service/internal/observability/metrics"
	"github.com/babylonchain/sqs-events-service/internal/observability/tracing"
	"github.com/babylonchain/sqs-events-service/internal/queue/client"
)

// FetchMessages long-polls queueURL for one batch. The returned bool is true
// when the caller should pause before trying again: either there is no URL
// to poll or the receive call failed.
func FetchMessages(
	ctx context.Context, c client.QueueClient, queueURL, name, ownerAcctID string,
) ([]client.QueueMessage, bool) {
	if queueURL == "" {
		tracing.Logger(ctx).Warn().
			Str("queueName", name).
			Msgf("Failure resolving queue URL for: %s", QueueDisplayName(ownerAcctID, name))
		return nil, true
	}

	stopTimer := metrics.StartReceiveDurationTimer(name)
	messages, err := tracing.WrapWithSpan[[]client.QueueMessage](ctx, "ReceiveMessages", func() ([]client.QueueMessage, error) {
		return c.ReceiveMessages(ctx, queueURL)
	})
	if err != nil {
		stopTimer(metrics.Error)
		if ctx.Err() == nil {
			tracing.Logger(ctx).Warn().Err(err).
				Str("queueName", name).
				Str("queueUrl", queueURL).
				Msg("error receiving messages from queue")
		}
		return nil, true
	}
	stopTimer(metrics.Success)

	if len(messages) > 0 {
		metrics.RecordMessagesReceived(name, len(messages))
		tracing.Logger(ctx).Debug().
			Str("queueName", name).
			Int("count", len(messages)).
			Msg("received messages")
	}
	return messages, false
}
