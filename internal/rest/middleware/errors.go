package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
)

// ErrorResponse is the JSON error envelope returned by every endpoint
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorHandlerMiddleware translates errors attached to the gin context into
// the taxonomy's HTTP statuses. Expected outcomes surface their hint;
// generation and storage failures are logged as incidents and surfaced with
// a generic message.
func ErrorHandlerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status := ierr.HTTPStatusFromErr(err)
		resp := ErrorResponse{
			Code:    ierr.ErrCodeFromErr(err),
			Message: ierr.Hint(err),
			Details: ierr.Details(err),
		}

		if !ierr.IsExpected(err) {
			log.Errorw("request failed",
				"path", c.Request.URL.Path,
				"status", status,
				"error", err)
			// never leak internal messages for incident-class errors
			if resp.Message == "" {
				resp.Message = "Something went wrong, please try again"
			}
			resp.Details = nil
		} else if resp.Message == "" {
			resp.Message = err.Error()
		}

		c.AbortWithStatusJSON(status, gin.H{"error": resp})
	}
}
