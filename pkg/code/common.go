package code

import "net/http"

var (
	Failed  = NewError(0, http.StatusOK, lang{en: "Failed", zh_cn: "失败"})
	Success = NewSuss(1, http.StatusOK, lang{en: "Success", zh_cn: "成功"})

	SuccessCreate = NewSuss(2, http.StatusCreated, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate = NewSuss(3, http.StatusOK, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete = NewSuss(4, http.StatusNoContent, lang{en: "Deleted successfully", zh_cn: "删除成功"})

	ErrorServerInternal  = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorNotFoundAPI     = NewError(404, http.StatusNotFound, lang{en: "API not found", zh_cn: "找不到接口"})
	ErrorInvalidParams   = NewError(400, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorTooManyRequests = NewError(429, http.StatusTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorRequestTimeout  = NewError(408, http.StatusGatewayTimeout, lang{en: "Request timeout", zh_cn: "请求超时"})

	ErrorDBQuery = NewError(501, http.StatusInternalServerError, lang{en: "Database operation failed", zh_cn: "数据库操作失败"})

	ErrorNoteNotFound     = NewError(405, http.StatusNotFound, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorNoteUpdateEmpty  = NewError(406, http.StatusBadRequest, lang{en: "No data provided", zh_cn: "未提供更新数据"})
	ErrorNoteTitleEmpty   = NewError(407, http.StatusBadRequest, lang{en: "Title must not be empty", zh_cn: "标题不能为空"})
	ErrorNoteContentEmpty = NewError(409, http.StatusBadRequest, lang{en: "Content must not be empty", zh_cn: "内容不能为空"})
	ErrorUserInputEmpty   = NewError(410, http.StatusBadRequest, lang{en: "User input must not be empty", zh_cn: "输入内容不能为空"})

	ErrorCompletionFailed    = NewError(502, http.StatusBadGateway, lang{en: "Language model request failed", zh_cn: "语言模型请求失败"})
	ErrorCompletionBusy      = NewError(503, http.StatusServiceUnavailable, lang{en: "Language model is busy, please retry later", zh_cn: "语言模型繁忙，请稍后重试"})
	ErrorCompletionNotConfig = NewError(504, http.StatusServiceUnavailable, lang{en: "Language model is not configured", zh_cn: "语言模型未配置"})
)
