package llm

import (
	"errors"
	"fmt"
)

// CompletionError is every failure of a completion call
// CompletionError 补全调用的所有失败都以此类型返回
type CompletionError struct {
	// StatusCode 上游 HTTP 状态码，请求未送达时为 0
	StatusCode int
	// Message 上游或本地的错误描述
	Message string
	// Err 底层错误
	Err error
}

func (e *CompletionError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("llm: API error (%d): %s: %v", e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("llm: API error (%d): %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("llm: %s: %v", e.Message, e.Err)
	}
	return "llm: " + e.Message
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// IsCompletionError 判断错误链中是否包含 CompletionError
func IsCompletionError(err error) bool {
	var ce *CompletionError
	return errors.As(err, &ce)
}
