package http

import (
	"errors"
	"net/http"

	"daily-quiz-service/internal/domain"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps domain errors to a stable code and HTTP status.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrInvalidOption):
		return "invalid_option", http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSelection):
		return "no_selection", http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyRevealed):
		return "already_revealed", http.StatusConflict
	case errors.Is(err, domain.ErrNotRevealed):
		return "not_revealed", http.StatusConflict
	case errors.Is(err, domain.ErrPlayerNotFound):
		return "player_not_found", http.StatusNotFound
	case errors.Is(err, domain.ErrNotStarted):
		return "not_started", http.StatusServiceUnavailable
	default:
		return "internal", http.StatusInternalServerError
	}
}

func toErrorPayload(err error) errorPayload {
	code, _ := classify(err)
	return errorPayload{Code: code, Message: err.Error()}
}
