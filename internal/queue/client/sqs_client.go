package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of *sqs.Client used by SQSClient.
type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSClient struct {
	client SQSAPI
	region string
}

func NewSQSClient(client SQSAPI, region string) *SQSClient {
	return &SQSClient{
		client: client,
		region: region,
	}
}

// Region returns the region the client was built for.
func (c *SQSClient) Region() string {
	return c.region
}

func (c *SQSClient) GetQueueURL(ctx context.Context, queueName, ownerAcctID string) (string, error) {
	input := &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	}
	if ownerAcctID != "" {
		input.QueueOwnerAWSAccountId = aws.String(ownerAcctID)
	}

	output, err := c.client.GetQueueUrl(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to get SQS queue URL for %s: %w", queueName, err)
	}

	queueURL := aws.ToString(output.QueueUrl)
	if queueURL == "" {
		return "", errors.New("SQS returned an empty queue URL")
	}
	return queueURL, nil
}

func (c *SQSClient) ReceiveMessages(ctx context.Context, queueURL string) ([]QueueMessage, error) {
	output, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: MaxNumberOfMessages,
		WaitTimeSeconds:     WaitTimeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive SQS messages: %w", err)
	}

	messages := make([]QueueMessage, 0, len(output.Messages))
	for _, m := range output.Messages {
		messages = append(messages, QueueMessage{
			MessageID:  aws.ToString(m.MessageId),
			Body:       aws.ToString(m.Body),
			Receipt:    aws.ToString(m.ReceiptHandle),
			Attributes: m.Attributes,
		})
	}
	return messages, nil
}

func (c *SQSClient) DeleteMessage(ctx context.Context, queueURL, receipt string) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	})
	if err != nil {
		return fmt.Errorf("failed to delete SQS message: %w", err)
	}
	return nil
}
