package extract

import (
	"strings"

	"github.com/bytedance/sonic"
)

const (
	// FallbackTitle 解析失败时使用的标题
	FallbackTitle = "AI Generated Note"
	// DefaultTitle 解析成功但缺少标题时使用
	DefaultTitle = "Untitled"
)

// FallbackTags 解析失败时使用的标签
var FallbackTags = []string{"ai-generated", "parsing-error", "manual-review"}

// decoder keeps numbers as their literal text so coerced tags read exactly as the model wrote them,
// and rejects raw control characters inside strings like any strict JSON parser
var decoder = sonic.Config{UseNumber: true, ValidateString: true}.Froze()

// Extraction 模型输出的结构化字段
type Extraction struct {
	Title     string   `json:"Title"`
	Notes     string   `json:"Notes"`
	Tags      []string `json:"Tags"`
	EventDate *string  `json:"EventDate"`
	EventTime *string  `json:"EventTime"`
}

// Outcome is either Success or Fallback
// Outcome 解析结果，取值为 Success 或 Fallback
type Outcome interface {
	// Extraction 返回可直接使用的结构化字段
	Extraction() Extraction
	isOutcome()
}

// Success 模型输出被成功解析
type Success struct {
	Fields Extraction
}

func (s Success) Extraction() Extraction { return s.Fields }
func (Success) isOutcome()               {}

// Fallback 模型输出无法解析，保留原始文本
type Fallback struct {
	RawText string
}

// Extraction 返回固定的兜底记录，Notes 为未经处理的原始文本
func (f Fallback) Extraction() Extraction {
	return Extraction{
		Title: FallbackTitle,
		Notes: f.RawText,
		Tags:  append([]string(nil), FallbackTags...),
	}
}

func (Fallback) isOutcome() {}

// Normalize 解析模型输出，isFallback 表示是否使用了兜底记录
func Normalize(raw string) (Extraction, bool) {
	out := Parse(raw)
	_, isFallback := out.(Fallback)
	return out.Extraction(), isFallback
}

// Parse never fails: malformed input yields a Fallback carrying raw unchanged
// Parse 不会返回错误，无法解析时返回携带原始文本的 Fallback
func Parse(raw string) Outcome {
	body, ok := jsonSpan(stripFences(raw))
	if !ok {
		return Fallback{RawText: raw}
	}

	var obj map[string]any
	if err := decoder.UnmarshalFromString(body, &obj); err != nil || obj == nil {
		return Fallback{RawText: raw}
	}

	e := Extraction{
		Title:     stringField(obj, "Title"),
		Notes:     stringField(obj, "Notes"),
		Tags:      tagsField(obj, "Tags"),
		EventDate: optionalField(obj, "EventDate"),
		EventTime: optionalField(obj, "EventTime"),
	}
	if e.Title == "" {
		e.Title = DefaultTitle
	}
	return Success{Fields: e}
}

// stripFences 去除首尾空白与 ``` / ```json 代码块标记，只做精确前后缀匹配
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// jsonSpan 截取第一个 { 到最后一个 } 之间的内容（含括号）
func jsonSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < 0 || start >= end {
		return "", false
	}
	return s[start : end+1], true
}

func stringField(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	return coerceString(v)
}

// optionalField 缺失或 null 时返回 nil，空字符串原样保留
func optionalField(obj map[string]any, key string) *string {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	s := coerceString(v)
	return &s
}

func tagsField(obj map[string]any, key string) []string {
	list, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(list))
	for _, v := range list {
		tags = append(tags, coerceString(v))
	}
	return tags
}

// coerceString 字符串原样返回，其他值返回其 JSON 文本
func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := decoder.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
