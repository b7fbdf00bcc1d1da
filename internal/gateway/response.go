package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ReviewPulse/internal/domain"
)

// APIError is the wire shape of a failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Error codes exposed to clients.
const (
	codeInvalidRequest  = "invalid_request"
	codeNotFound        = "not_found"
	codeEmptyQuestion   = "empty_question"
	codeUpstreamTimeout = "upstream_timeout"
	codeStageFailure    = "stage_failure"
	codeInternal        = "internal_error"
)

// RespondOK writes a JSON success body.
func RespondOK(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// RespondError writes the error envelope.
func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

// respondDomainError maps domain sentinels onto HTTP statuses and codes.
func (h *Handlers) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		RespondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
	case errors.Is(err, domain.ErrEmptyQuestion):
		RespondError(c, http.StatusBadRequest, codeEmptyQuestion, "question must not be empty")
	case errors.Is(err, domain.ErrNotCompleted):
		RespondError(c, http.StatusNotFound, codeNotFound, "analysis not completed")
	case errors.Is(err, domain.ErrNotFound):
		RespondError(c, http.StatusNotFound, codeNotFound, "resource not found")
	case errors.Is(err, context.DeadlineExceeded):
		RespondError(c, http.StatusGatewayTimeout, codeUpstreamTimeout, "upstream call timed out")
	default:
		h.log().Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		RespondError(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
