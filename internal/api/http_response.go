package api

import (
	"encoding/json"
	"net/http"

	"github.com/babylonchain/sqs-events-service/internal/api/handlers"
	"github.com/babylonchain/sqs-events-service/internal/observability/metrics"
	"github.com/babylonchain/sqs-events-service/internal/observability/tracing"
	"github.com/babylonchain/sqs-events-service/internal/types"
)

const internalErrorMessage = "Internal service error"

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type handlerFunc func(*http.Request) (*handlers.Result, *types.Error)

// registerHandler adapts a handler to http, recording the request duration
// under the route path.
func registerHandler(handle handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stopTimer := metrics.StartHttpRequestDurationTimer(r.URL.Path)

		status, body := resolveResponse(r, handle)
		stopTimer(status)
		writeResponse(w, r, status, body)
	}
}

func resolveResponse(r *http.Request, handle handlerFunc) (int, interface{}) {
	logger := tracing.Logger(r.Context())

	result, apiErr := handle(r)
	if apiErr != nil {
		status := apiErr.StatusCode
		if http.StatusText(status) == "" {
			logger.Error().Err(apiErr).Int("status_code", status).Msg("invalid status code")
			status = http.StatusInternalServerError
		}

		body := &ErrorResponse{ErrorCode: apiErr.ErrorCode.String(), Message: apiErr.Error()}
		switch {
		case status == http.StatusServiceUnavailable:
			// Dependency outages are reported to the caller as they are.
			logger.Warn().Err(apiErr).Msg("request failed, service unavailable")
		case status >= http.StatusInternalServerError:
			logger.Error().Err(apiErr).Msg("request failed with 5xx error")
			body.Message = internalErrorMessage
		}
		return status, body
	}

	if result == nil || http.StatusText(result.Status) == "" {
		logger.Error().Msg("invalid success response, error returned")
		return http.StatusInternalServerError, &ErrorResponse{
			ErrorCode: types.InternalServiceError.String(),
			Message:   internalErrorMessage,
		}
	}
	return result.Status, result.Data
}

func writeResponse(w http.ResponseWriter, r *http.Request, statusCode int, res interface{}) {
	respBytes, err := json.Marshal(res)
	if err != nil {
		tracing.Logger(r.Context()).Error().Err(err).Msg("failed to marshal response")
		http.Error(w, "Failed to process the request. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(respBytes) // nolint:errcheck
}
