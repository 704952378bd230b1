package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
)

// APIError is the flat error body. Diagnostic is only set for server errors.
type APIError struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	Diagnostic string `json:"error,omitempty"`
}

// RespondError writes a client error body without a diagnostic. Used for
// request bodies that fail to decode.
func RespondError(c *gin.Context, status int, code, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, APIError{Message: message, Code: code})
}

// RespondAPIError maps err onto its apierr status; anything else is a 500.
func RespondAPIError(c *gin.Context, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae == nil {
		body := APIError{Message: "Internal server error", Code: "internal_error"}
		if err != nil {
			body.Diagnostic = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	body := APIError{Message: ae.Error(), Code: ae.Code}
	if status >= http.StatusInternalServerError {
		body.Diagnostic = ae.Cause()
	}
	c.JSON(status, body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
