package queue

import (
	"context"
	"strings"

	"github.com/babylonchain/sqs-events-service/internal/observability/metrics"
	"github.com/babylonchain/sqs-events-service/internal/observability/tracing"
	"github.com/babylonchain/sqs-events-service/internal/queue/client"
)

// QueueDisplayName joins the owning account and the queue name, skipping
// empty parts.
func QueueDisplayName(ownerAcctID, name string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{ownerAcctID, name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ":")
}

// ResolveQueueURL looks up the URL of the named queue with a single call.
// It returns "" when the lookup fails.
func ResolveQueueURL(ctx context.Context, c client.QueueClient, name, ownerAcctID string) string {
	queueURL, err := c.GetQueueURL(ctx, name, ownerAcctID)
	if err != nil {
		tracing.Logger(ctx).Warn().Err(err).
			Str("queueName", name).
			Str("ownerAcctId", ownerAcctID).
			Msgf("Failure getting queue URL for: %s", QueueDisplayName(ownerAcctID, name))
		metrics.RecordQueueResolveFailure(name)
		return ""
	}

	tracing.Logger(ctx).Info().
		Str("queueName", name).
		Str("queueUrl", queueURL).
		Msg("resolved queue URL")
	return queueURL
}
