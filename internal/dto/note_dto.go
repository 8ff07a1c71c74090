// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/fast-note-ai-service/pkg/timex"
)

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	EventDate *string    `json:"event_date"`
	EventTime *string    `json:"event_time"`
	Owner     *string    `json:"owner"`
	CreatedAt timex.Time `json:"created_at"`
	UpdatedAt timex.Time `json:"updated_at"`
}

// NoteIDRequest 路径中的笔记 ID
type NoteIDRequest struct {
	ID string `uri:"id" binding:"required"`
}

// NoteCreateRequest Request parameters for creating a note
// NoteCreateRequest 创建笔记的请求参数
type NoteCreateRequest struct {
	Title     string   `json:"title" form:"title" binding:"required,max=200"`
	Content   string   `json:"content" form:"content" binding:"required"`
	Tags      []string `json:"tags" form:"tags" binding:"omitempty,max=20,dive,max=64"`
	EventDate *string  `json:"event_date" form:"event_date" binding:"omitempty,isodate"`
	EventTime *string  `json:"event_time" form:"event_time" binding:"omitempty,hhmm"`
	Owner     *string  `json:"owner" form:"owner" binding:"omitempty,max=64"`
}

// NoteUpdateRequest Partial update, absent fields keep their value
// NoteUpdateRequest 局部更新请求，未提供的字段保持原值
type NoteUpdateRequest struct {
	Title     *string   `json:"title" form:"title" binding:"omitempty,max=200"`
	Content   *string   `json:"content" form:"content"`
	Tags      *[]string `json:"tags" form:"tags" binding:"omitempty,max=20,dive,max=64"`
	EventDate *string   `json:"event_date" form:"event_date" binding:"omitempty,isodate"`
	EventTime *string   `json:"event_time" form:"event_time" binding:"omitempty,hhmm"`
	Owner     *string   `json:"owner" form:"owner" binding:"omitempty,max=64"`
}

// NoteSearchRequest 搜索参数，q 为空时返回空列表
type NoteSearchRequest struct {
	Q string `json:"q" form:"q" binding:"max=200"`
}

// NoteTranslateRequest 翻译请求参数
type NoteTranslateRequest struct {
	TargetLanguage string `json:"target_language" form:"target_language" binding:"max=64"`
}

// NoteTranslateResponse 翻译结果，不会写回数据库
type NoteTranslateResponse struct {
	TranslatedTitle   string `json:"translated_title"`
	TranslatedContent string `json:"translated_content"`
}

// NaturalLanguageRequest Free-form text to be turned into a note
// NaturalLanguageRequest 自然语言生成笔记请求参数
type NaturalLanguageRequest struct {
	UserInput      string `json:"user_input" form:"user_input" binding:"required,max=10000"`
	OutputLanguage string `json:"output_language" form:"output_language" binding:"max=64"`
}

// ProcessedDataDTO 模型返回的结构化字段，IsFallback 表示是否使用了兜底记录
type ProcessedDataDTO struct {
	Title      string   `json:"Title"`
	Notes      string   `json:"Notes"`
	Tags       []string `json:"Tags"`
	EventDate  *string  `json:"EventDate"`
	EventTime  *string  `json:"EventTime"`
	IsFallback bool     `json:"is_fallback"`
}

// IngestResultDTO 自然语言生成笔记的结果
type IngestResultDTO struct {
	Note          *NoteDTO          `json:"note"`
	ProcessedData *ProcessedDataDTO `json:"processed_data"`
}
