// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	LLM LLMServiceConfig // Completion sampling and language defaults // 模型调用参数与默认语言
	// Now 时钟，为空时使用 time.Now
	Now func() time.Time
}

// LLMServiceConfig 模型调用配置
type LLMServiceConfig struct {
	Temperature              float64 // Sampling temperature // 采样温度
	TopP                     float64 // Nucleus sampling // top_p
	DefaultOutputLanguage    string  // Ingest output language when the request has none // 生成笔记默认语言
	DefaultTranslateLanguage string  // Translate target when the request has none // 翻译默认目标语言
}

func (c *ServiceConfig) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *ServiceConfig) withDefaults() *ServiceConfig {
	out := ServiceConfig{}
	if c != nil {
		out = *c
	}
	if out.LLM.Temperature == 0 {
		out.LLM.Temperature = 1.0
	}
	if out.LLM.TopP == 0 {
		out.LLM.TopP = 1.0
	}
	if out.LLM.DefaultOutputLanguage == "" {
		out.LLM.DefaultOutputLanguage = "English"
	}
	if out.LLM.DefaultTranslateLanguage == "" {
		out.LLM.DefaultTranslateLanguage = "Chinese"
	}
	return &out
}
