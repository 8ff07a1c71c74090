package api_router

import (
	"github.com/haierkeys/fast-note-ai-service/internal/app"
	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-ai-service/pkg/app"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	apperrors "github.com/haierkeys/fast-note-ai-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestHandler 自然语言生成笔记处理器
type IngestHandler struct {
	*Handler
}

// NewIngestHandler 创建 IngestHandler 实例
func NewIngestHandler(a *app.App) *IngestHandler {
	return &IngestHandler{Handler: NewHandler(a)}
}

// ProcessNaturalLanguage 调用模型把自由文本整理为笔记并保存
// 返回保存后的笔记和模型解析出的原始字段
// @Router /api/notes/process-natural-language [post]
func (h *IngestHandler) ProcessNaturalLanguage(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NaturalLanguageRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("IngestHandler.ProcessNaturalLanguage.BindAndValid err", zap.Error(errs))
		invalidParams(response, errs)
		return
	}

	ctx := c.Request.Context()
	res, err := h.App.IngestService.Ingest(ctx, params)
	if err != nil {
		h.logError(ctx, "IngestHandler.ProcessNaturalLanguage", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(res))
}
