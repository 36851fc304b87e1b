package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/babylonchain/sqs-events-service/internal/config"
	"github.com/babylonchain/sqs-events-service/internal/queue"
)

type StatusProvider interface {
	Status() queue.Status
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	config    *config.Config
	status    StatusProvider
	publisher Pinger
}

type PublicResponse[T any] struct {
	Data T `json:"data"`
}

type Result struct {
	Data   interface{}
	Status int
}

// NewResult returns a successful result, with default status code 200
func NewResult[T any](data T) *Result {
	res := &PublicResponse[T]{Data: data}
	return &Result{Data: res, Status: http.StatusOK}
}

func New(
	_ context.Context, cfg *config.Config, status StatusProvider, publisher Pinger,
) (*Handler, error) {
	if status == nil {
		return nil, errors.New("status provider cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("event publisher cannot be nil")
	}
	return &Handler{
		config:    cfg,
		status:    status,
		publisher: publisher,
	}, nil
}
