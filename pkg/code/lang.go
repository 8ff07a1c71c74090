package code

import (
	"errors"
	"sync/atomic"
)

// lang stores the English and Chinese text of a message
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const (
	LangEN = "en"
	LangZH = "zh_cn"

	FALLBACK_LNG = LangEN
)

var lng atomic.Value

func init() {
	lng.Store(FALLBACK_LNG)
}

// GetMessage returns the message in the current global language, falling back to English
// GetMessage 方法根据当前全局语言返回相应的消息，缺失时回退到英文
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// In returns the message in the given language
// In 返回指定语言的消息
func (l lang) In(language string) string {
	switch language {
	case LangZH:
		if l.zh_cn != "" {
			return l.zh_cn
		}
	case LangEN:
		if l.en != "" {
			return l.en
		}
	}
	if l.en != "" {
		return l.en
	}
	return "No message available for language: " + language
}

// GetSupportedLanguages 返回支持的所有语言
func GetSupportedLanguages() []string {
	return []string{LangEN, LangZH}
}

// SetGlobalDefaultLang sets the global default language
// 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	for _, l := range GetSupportedLanguages() {
		if language == l {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	if v, ok := lng.Load().(string); ok && v != "" {
		return v
	}
	return FALLBACK_LNG
}
