package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theline-social/theline/pkg/apperr"
	"github.com/theline-social/theline/pkg/logger"
)

// Response is the wire envelope shared by every endpoint.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Status: true, Data: data})
}

func SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Status: true, Message: message, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Status: true, Data: data})
}

// Error renders err through the apperr taxonomy. Unclassified errors are
// logged server-side and surfaced as a generic 500.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.Error("internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(kind.Status(), Response{Status: false, Message: apperr.Message(err)})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Status: false, Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{Status: false, Message: message})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{Status: false, Message: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Status: false, Message: message})
}
