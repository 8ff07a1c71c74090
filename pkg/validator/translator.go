package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

var (
	initOnce sync.Once
	initUni  *ut.UniversalTranslator
	initErr  error
)

// customMessages 自定义标签的翻译文本
var customMessages = map[string]map[string]string{
	"en": {
		"isodate": "{0} must be a date in YYYY-MM-DD format",
		"hhmm":    "{0} must be a 24-hour time in HH:MM format",
	},
	"zh": {
		"isodate": "{0}必须是 YYYY-MM-DD 格式的日期",
		"hhmm":    "{0}必须是 HH:MM 格式的 24 小时制时间",
	},
}

// InitGinValidator installs CustomValidator as gin's binding validator, reports
// field names by their json tag and registers en/zh translations. Safe to call repeatedly.
// InitGinValidator 替换 gin 的校验器，字段名使用 json 标签，并注册中英文翻译；可重复调用
func InitGinValidator() (*ut.UniversalTranslator, error) {
	initOnce.Do(func() {
		customValidator := NewCustomValidator()
		binding.Validator = customValidator

		validate := customValidator.Engine().(*validator.Validate)
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		Register(validate)

		uni := ut.New(en.New(), en.New(), zh.New())
		zhTran, _ := uni.GetTranslator("zh")
		enTran, _ := uni.GetTranslator("en")

		if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
			initErr = err
			return
		}
		if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
			initErr = err
			return
		}

		for locale, trans := range map[string]ut.Translator{"en": enTran, "zh": zhTran} {
			for tag, text := range customMessages[locale] {
				if err := registerTranslation(validate, trans, tag, text); err != nil {
					initErr = err
					return
				}
			}
		}

		initUni = uni
	})
	return initUni, initErr
}

func registerTranslation(v *validator.Validate, trans ut.Translator, tag, text string) error {
	return v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
