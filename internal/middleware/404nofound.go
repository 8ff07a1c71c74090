package middleware

import (
	"github.com/haierkeys/fast-note-ai-service/pkg/app"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 未匹配路由时返回 404 信封
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI)
		c.Abort()
	}
}
