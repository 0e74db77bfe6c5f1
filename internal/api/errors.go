package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecfr_analytics/internal/analytics"
)

const (
	codeAPIError       = "api_error"
	codeInvalidRequest = "invalid_request_error"
	codeNotFound       = "not_found"
	codeUpstream       = "upstream_error"
)

type errorBody struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Code: codeInvalidRequest, Message: message})
}

func abortInternal(c *gin.Context) {
	c.Header("X-Amzn-ErrorType", "InternalFailureException")
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Code: codeAPIError, Message: "An internal error has occurred"})
}

// fail maps an engine error onto a response.
func (h *handlers) fail(c *gin.Context, op string, err error) {
	var nf *analytics.NotFoundError
	switch {
	case errors.As(err, &nf):
		c.AbortWithStatusJSON(http.StatusNotFound, errorBody{Code: codeNotFound, Message: nf.Error()})
	case errors.Is(err, analytics.ErrUpstream):
		h.logger.Warn(op+" failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDHeader)))
		c.AbortWithStatusJSON(http.StatusBadGateway, errorBody{Code: codeUpstream, Message: "The eCFR service could not be reached"})
	default:
		h.logger.Error(op+" failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDHeader)))
		abortInternal(c)
	}
}
