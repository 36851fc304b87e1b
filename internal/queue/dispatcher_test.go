package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/babylonchain/sqs-events-service/internal/queue/client"
	"github.com/babylonchain/sqs-events-service/internal/types"
	"github.com/babylonchain/sqs-events-service/tests/mocks"
)

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/123456789012/orders"

func TestDispatchDecoding(t *testing.T) {
	testCases := []struct {
		name     string
		format   types.MessageFormat
		body     string
		expected interface{}
	}{
		{
			name:     "json format with invalid body forwards the raw string",
			format:   types.JSONFormat,
			body:     "not {json",
			expected: "not {json",
		},
		{
			name:     "json format with object body forwards parsed data",
			format:   types.JSONFormat,
			body:     `{"a":1}`,
			expected: map[string]interface{}{"a": int64(1)},
		},
		{
			name:     "json format keeps integers above 2^53 exact",
			format:   types.JSONFormat,
			body:     `{"id":9007199254740993}`,
			expected: map[string]interface{}{"id": int64(9007199254740993)},
		},
		{
			name:     "json format keeps integers beyond int64 as numbers",
			format:   types.JSONFormat,
			body:     `{"id":123456789012345678901234567890}`,
			expected: map[string]interface{}{"id": json.Number("123456789012345678901234567890")},
		},
		{
			name:     "json format decodes nested numbers",
			format:   types.JSONFormat,
			body:     `{"price":1.5,"items":[1,{"qty":2e3}]}`,
			expected: map[string]interface{}{
				"price": float64(1.5),
				"items": []interface{}{int64(1), map[string]interface{}{"qty": float64(2000)}},
			},
		},
		{
			name:     "json format with trailing data forwards the raw string",
			format:   types.JSONFormat,
			body:     `{"a":1} {"b":2}`,
			expected: `{"a":1} {"b":2}`,
		},
		{
			name:     "json format tolerates surrounding whitespace",
			format:   types.JSONFormat,
			body:     " [true, null] \n",
			expected: []interface{}{true, nil},
		},
		{
			name:     "json format with scalar body",
			format:   types.JSONFormat,
			body:     `"quoted"`,
			expected: "quoted",
		},
		{
			name:     "raw format never parses json",
			format:   types.RawFormat,
			body:     `{"a":1}`,
			expected: `{"a":1}`,
		},
		{
			name:     "unknown format behaves like raw",
			format:   types.MessageFormat("yaml"),
			body:     `[1,2]`,
			expected: `[1,2]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			publisher := mocks.NewPublisher(t)
			queueClient := mocks.NewQueueClient(t)

			publisher.On("FireEvent", mock.Anything, "events", map[string]interface{}{MessageKey: tc.expected}).
				Return(nil).Once()
			queueClient.On("DeleteMessage", mock.Anything, testQueueURL, "rcpt").Return(nil).Once()

			d := NewDispatcher(publisher, "orders", "events", tc.format)
			outcome := d.Dispatch(context.Background(), queueClient, testQueueURL, client.QueueMessage{
				MessageID: "m1",
				Body:      tc.body,
				Receipt:   "rcpt",
			})
			assert.Equal(t, Deleted, outcome)
		})
	}
}

func TestDispatchForwardFailureLeavesMessage(t *testing.T) {
	publisher := mocks.NewPublisher(t)
	queueClient := mocks.NewQueueClient(t)

	publisher.On("FireEvent", mock.Anything, "events", mock.Anything).Return(errors.New("bus down")).Once()

	d := NewDispatcher(publisher, "orders", "events", types.RawFormat)
	outcome := d.Dispatch(context.Background(), queueClient, testQueueURL, client.QueueMessage{Body: "hello", Receipt: "rcpt"})

	assert.Equal(t, ForwardFailed, outcome)
	queueClient.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchDeleteFailure(t *testing.T) {
	publisher := mocks.NewPublisher(t)
	queueClient := mocks.NewQueueClient(t)

	publisher.On("FireEvent", mock.Anything, "events", mock.Anything).Return(nil).Once()
	queueClient.On("DeleteMessage", mock.Anything, testQueueURL, "rcpt").Return(errors.New("throttled")).Once()

	d := NewDispatcher(publisher, "orders", "events", types.RawFormat)
	outcome := d.Dispatch(context.Background(), queueClient, testQueueURL, client.QueueMessage{Body: "hello", Receipt: "rcpt"})

	assert.Equal(t, DeleteFailed, outcome)
}

func TestDispatchDeletesAfterCancellation(t *testing.T) {
	publisher := mocks.NewPublisher(t)
	queueClient := mocks.NewQueueClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	publisher.On("FireEvent", mock.Anything, "events", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil).Once()
	queueClient.On("DeleteMessage", mock.Anything, testQueueURL, "rcpt").
		Run(func(args mock.Arguments) {
			deleteCtx := args.Get(0).(context.Context)
			assert.NoError(t, deleteCtx.Err())
		}).
		Return(nil).Once()

	d := NewDispatcher(publisher, "orders", "events", types.RawFormat)
	assert.Equal(t, Deleted, d.Dispatch(ctx, queueClient, testQueueURL, client.QueueMessage{Body: "hello", Receipt: "rcpt"}))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, "delete_failed", DeleteFailed.String())
	assert.Equal(t, "forward_failed", ForwardFailed.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
