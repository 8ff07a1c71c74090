package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldModel 语言模型名称字段
	FieldModel = "model"

	// FieldEndpoint 语言模型服务地址字段
	FieldEndpoint = "endpoint"

	// FieldLanguage 目标语言字段
	FieldLanguage = "language"

	// FieldFallback 是否使用兜底解析结果
	FieldFallback = "fallback"

	// FieldQuery 搜索关键字字段
	FieldQuery = "query"

	// FieldCount 数量字段
	FieldCount = "count"
)
