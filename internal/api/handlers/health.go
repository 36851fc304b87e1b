package handlers

import (
	"fmt"
	"net/http"

	"github.com/babylonchain/sqs-events-service/internal/types"
)

func (h *Handler) HealthCheck(request *http.Request) (*Result, *types.Error) {
	if err := h.publisher.Ping(request.Context()); err != nil {
		return nil, types.NewServiceUnavailableError(fmt.Errorf("event bus is not reachable: %w", err))
	}

	return NewResult("Server is up and running"), nil
}
