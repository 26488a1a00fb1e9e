package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the envelope for not-found, unauthorized and internal faults.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationBody is the envelope for per-field validation failures.
type ValidationBody struct {
	Errors map[string][]string `json:"errors"`
}

// MessageBody acknowledges an action without returning a resource.
type MessageBody struct {
	Message string `json:"message"`
}

func JSON(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Message: msg})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, msg string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorBody{Error: msg})
}

// Internal reports an unexpected fault with its description.
func Internal(c *gin.Context, msg string, err error) {
	body := ErrorBody{Error: msg}
	if err != nil {
		body.Message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func Validation(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, ValidationBody{Errors: fields})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}
