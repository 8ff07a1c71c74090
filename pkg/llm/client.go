// Package llm 提供 OpenAI 兼容的聊天补全客户端
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// maxResponseBytes 响应体读取上限
	maxResponseBytes = 8 << 20
)

// ErrNotConfigured is returned by New when the endpoint, model or credential is missing
// ErrNotConfigured 服务地址、模型或凭证缺失
var ErrNotConfigured = errors.New("llm: endpoint, model and api key are required")

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompleter sends a conversation and returns the first choice's text
// ChatCompleter 发送对话并返回第一个候选结果的文本
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Message, opts ...Option) (string, error)
}

// Config 客户端配置
type Config struct {
	// Endpoint 服务根地址，请求发送到 {Endpoint}/chat/completions
	Endpoint string
	// Model 模型名称
	Model string
	// APIKey Bearer 凭证，不会出现在日志与错误信息中
	APIKey string
	// HTTPClient 为空时使用不带超时的默认客户端，超时由调用方 ctx 控制
	HTTPClient *http.Client
}

// String 输出配置时隐藏凭证
func (c Config) String() string {
	key := "<empty>"
	if c.APIKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("llm.Config{Endpoint:%s Model:%s APIKey:%s}", c.Endpoint, c.Model, key)
}

// callOptions 单次调用的采样参数
type callOptions struct {
	temperature float64
	topP        float64
}

// Option 调用选项
type Option func(*callOptions)

// WithTemperature 设置 temperature，默认 1.0
func WithTemperature(v float64) Option {
	return func(o *callOptions) { o.temperature = v }
}

// WithTopP 设置 top_p，默认 1.0
func WithTopP(v float64) Option {
	return func(o *callOptions) { o.topP = v }
}

// Client 聊天补全客户端
type Client struct {
	cfg        Config
	url        string
	httpClient *http.Client
}

// New 创建客户端
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" || strings.TrimSpace(cfg.Model) == "" || cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		cfg:        cfg,
		url:        strings.TrimRight(cfg.Endpoint, "/") + "/chat/completions",
		httpClient: hc,
	}, nil
}

// Model 返回模型名称
func (c *Client) Model() string {
	return c.cfg.Model
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Complete performs exactly one request; it never retries and never falls back
// Complete 只发送一次请求，不重试，不降级
func (c *Client) Complete(ctx context.Context, messages []Message, opts ...Option) (text string, err error) {
	o := callOptions{temperature: 1.0, topP: 1.0}
	for _, opt := range opts {
		opt(&o)
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "llm.Complete")
	span.SetTag("llm.model", c.cfg.Model)
	ext.SpanKindRPCClient.Set(span)
	start := time.Now()
	defer func() {
		observe(c.cfg.Model, err, time.Since(start))
		if err != nil {
			ext.Error.Set(span, true)
			span.LogKV("event", "error", "message", err.Error())
		}
		span.Finish()
	}()

	body, err := sonic.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: o.temperature,
		TopP:        o.topP,
	})
	if err != nil {
		return "", &CompletionError{Message: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", &CompletionError{Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &CompletionError{Message: "execute request", Err: err}
	}
	defer resp.Body.Close()

	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &CompletionError{StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	var parsed chatResponse
	decodeErr := sonic.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &CompletionError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return "", &CompletionError{StatusCode: resp.StatusCode, Message: "decode response", Err: decodeErr}
	}
	if len(parsed.Choices) == 0 {
		return "", &CompletionError{StatusCode: resp.StatusCode, Message: "response contains no choices"}
	}

	content := parsed.Choices[0].Message.Content
	if content == nil {
		return "", nil
	}
	return *content, nil
}

var _ ChatCompleter = (*Client)(nil)
