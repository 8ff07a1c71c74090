package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-ai-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 根据 ?lang= 或 Lang 请求头选择校验信息翻译器与响应语言
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}

		lang = strings.ToLower(strings.ReplaceAll(lang, "-", "_"))

		// zh / zh_cn / zh_hans 都按简体中文处理
		locale, msgLang := "en", code.LangEN
		if strings.HasPrefix(lang, "zh") {
			locale, msgLang = "zh", code.LangZH
		}

		if uni != nil {
			if trans, found := uni.GetTranslator(locale); found {
				c.Set("trans", trans)
			}
		}

		_ = code.SetGlobalDefaultLang(msgLang)

		c.Next()
	}
}
