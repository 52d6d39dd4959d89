package response

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request ID middleware sets.
const RequestIDKey = "RequestID"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Error     any    `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	})
}

// List writes a collection. A nil slice is sent as [] and Count is always set.
func List[T any](c *gin.Context, code int, message string, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      items,
		Count:     &n,
		RequestID: c.GetString(RequestIDKey),
	})
}

// Error writes a failure. details carries field-level validation errors when present.
func Error(c *gin.Context, code int, message string, details any) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     details,
		RequestID: c.GetString(RequestIDKey),
	})
}
