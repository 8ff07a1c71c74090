package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/fast-note-ai-service/pkg/app"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 捕获 panic，记录堆栈并返回 500 信封
func RecoveryWithLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []zap.Field{
				zap.String("router", path),
				zap.String("method", c.Request.Method),
				zap.String("query", query),
				zap.String("ip", c.ClientIP()),
				zap.String("user-agent", c.Request.UserAgent()),
				zap.String("traceId", GetTraceIDFromGin(c)),
				zap.String("stack", string(debug.Stack())),
			}

			var errorMsg string
			switch v := rec.(type) {
			case error:
				errorMsg = v.Error()
				logger.Error("Recovered from panic", append(fields, zap.Error(v))...)
			case string:
				errorMsg = v
				logger.Error("Recovered from panic", append(fields, zap.String("panic_value", v))...)
			default:
				errorMsg = fmt.Sprintf("%v", v)
				logger.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", errorMsg))...)
			}

			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(errorMsg))
			c.Abort()
		}()

		c.Next()
	}
}
