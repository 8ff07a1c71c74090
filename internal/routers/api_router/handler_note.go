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

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// invalidParams 输出参数校验失败响应
func invalidParams(response *pkgapp.Response, errs pkgapp.ValidErrors) {
	response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
}

// List 获取全部笔记，按更新时间倒序
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	notes, err := h.App.NoteService.List(ctx)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(notes))
}

// Create 创建笔记
// @Router /api/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		invalidParams(response, errs)
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(note))
}

// Get 获取单条笔记
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	note, err := h.App.NoteService.Get(ctx, c.Param("id"))
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// Update 局部更新笔记，未提供的字段保持原值
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Update.BindAndValid err", zap.Error(errs))
		invalidParams(response, errs)
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Update(ctx, c.Param("id"), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate.WithData(note))
}

// Delete 删除笔记，成功返回 204
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.App.NoteService.Delete(ctx, c.Param("id")); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// Search 按标题或内容子串搜索，q 为空时返回空列表
// @Router /api/notes/search [get]
func (h *NoteHandler) Search(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteSearchRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Search.BindAndValid err", zap.Error(errs))
		invalidParams(response, errs)
		return
	}

	ctx := c.Request.Context()
	notes, err := h.App.NoteService.Search(ctx, params.Q)
	if err != nil {
		h.logError(ctx, "NoteHandler.Search", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notes))
}

// Translate 翻译笔记标题和内容，结果不写回数据库
// 请求体可省略，目标语言默认 Chinese
// @Router /api/notes/translate/{id} [post]
func (h *NoteHandler) Translate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteTranslateRequest{}

	if c.Request.ContentLength != 0 {
		valid, errs := pkgapp.BindAndValid(c, params)
		if !valid {
			h.App.Logger().Error("NoteHandler.Translate.BindAndValid err", zap.Error(errs))
			invalidParams(response, errs)
			return
		}
	}

	ctx := c.Request.Context()
	res, err := h.App.NoteService.Translate(ctx, c.Param("id"), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Translate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(res))
}
