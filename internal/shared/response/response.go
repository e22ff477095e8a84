package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Messages of the generic error bodies.
const (
	MessageNotFound            = "Not Found"
	MessageInternalServerError = "Internal server error"
)

// MessageResponse is the body of every error response.
type MessageResponse struct {
	Message string `json:"message"`
}

// Success responses
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error responses
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageResponse{Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Message(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Message(c, http.StatusNotFound, MessageNotFound)
}

func InternalServerError(c *gin.Context) {
	Message(c, http.StatusInternalServerError, MessageInternalServerError)
}
