package handlers

import (
	"net/http"

	"github.com/babylonchain/sqs-events-service/internal/config"
	"github.com/babylonchain/sqs-events-service/internal/queue"
	"github.com/babylonchain/sqs-events-service/internal/types"
)

type StatusPublic struct {
	queue.Status
	EventBus string `json:"event_bus"`
}

// GetStatus reports where the polling loop is and what it has forwarded.
func (h *Handler) GetStatus(_ *http.Request) (*Result, *types.Error) {
	eventBus := h.config.EventBus.Type
	if eventBus == "" {
		eventBus = config.EventBusLog
	}
	return NewResult(StatusPublic{
		Status:   h.status.Status(),
		EventBus: eventBus,
	}), nil
}
