package api_router

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/app"
	pkgapp "github.com/haierkeys/fast-note-ai-service/pkg/app"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pingTimeout 数据库探活超时
const pingTimeout = 3 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string  `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string  `json:"version"`  // 服务版本号
	Uptime   float64 `json:"uptime"`   // 运行时间（秒）
	Database string  `json:"database"` // "connected" 或 "error"
	LLM      string  `json:"llm"`      // "configured" 或 "disabled"
}

// Check 健康检查接口，包括数据库连通性
// @Router /api/healthcheck [get]
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
		LLM:      "configured",
	}
	if !h.App.LLMEnabled() {
		response.LLM = "disabled"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.App.Dao.Ping(ctx); err != nil {
		h.App.Logger().Warn("HealthHandler.Check database ping failed", zap.Error(err))
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.ErrorDBQuery.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
