package middleware

import (
	"github.com/haierkeys/fast-note-ai-service/pkg/app"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter 按令牌桶限流，没有配置桶的路由直接放行
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			if bucket.TakeAvailable(1) == 0 {
				app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
