package app

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

// ValidError 单个字段的校验错误
type ValidError struct {
	Key     string
	Message string
}

// ValidErrors 校验错误集合
type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 以逗号拼接全部错误信息
func (v ValidErrors) ErrorsToString() string {
	return v.Error()
}

// MapsToString 字段名到错误信息的映射
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// BindAndValid binds the request into v and runs struct validation,
// translating messages with the translator set by the lang middleware
// BindAndValid 绑定请求参数并校验，使用语言中间件设置的翻译器翻译错误信息
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors

	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, io.EOF) {
		errs = append(errs, &ValidError{Key: "body", Message: "request body is empty"})
		return false, errs
	}

	var verrs val.ValidationErrors
	if !errors.As(err, &verrs) {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value("trans").(ut.Translator)
	for key, value := range verrs.Translate(trans) {
		errs = append(errs, &ValidError{
			Key:     key,
			Message: value,
		})
	}

	return false, errs
}
