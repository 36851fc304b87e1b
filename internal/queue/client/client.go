package client

import "context"

const (
	// MaxNumberOfMessages is the largest batch a single SQS receive may return.
	MaxNumberOfMessages int32 = 10
	// WaitTimeSeconds is the long-poll window of a receive call.
	WaitTimeSeconds int32 = 20
)

type QueueMessage struct {
	MessageID  string
	Body       string
	Receipt    string
	Attributes map[string]string
}

// QueueClient is the narrow view of the queue service used by the
// fetch/dispatch loop.
type QueueClient interface {
	GetQueueURL(ctx context.Context, queueName, ownerAcctID string) (string, error)
	ReceiveMessages(ctx context.Context, queueURL string) ([]QueueMessage, error)
	DeleteMessage(ctx context.Context, queueURL, receipt string) error
}
