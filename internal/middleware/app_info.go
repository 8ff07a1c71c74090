package middleware

import (
	"github.com/haierkeys/fast-note-ai-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfoWithConfig 将应用名称、版本和访问地址写入上下文
func AppInfoWithConfig(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
