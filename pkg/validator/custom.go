package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsISODate 判断是否为 YYYY-MM-DD 格式的有效日期
func IsISODate(s string) bool {
	if len(s) != len(time.DateOnly) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// IsHHMM 判断是否为 24 小时制 HH:MM
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// RegisterCustom registers the isodate and hhmm tags on the gin validator engine
// RegisterCustom 在 gin 的校验引擎上注册 isodate 与 hhmm 标签
func RegisterCustom() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	Register(v)
}

// Register 在指定校验器上注册自定义标签
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsHHMM(fl.Field().String())
	})
}
