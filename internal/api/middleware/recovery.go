package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theline-social/theline/pkg/logger"
	"github.com/theline-social/theline/pkg/response"
)

// Recovery converts panics into 500 envelopes and reports them to sentry
// when a DSN is configured.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				logger.Error("request panic",
					zap.String("path", c.FullPath()),
					zap.Any("panic", r))
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.CaptureException(err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Status:  false,
					Message: "something went wrong",
				})
			}
		}()
		c.Next()
	}
}
