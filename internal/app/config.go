// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/dao"
	"github.com/haierkeys/fast-note-ai-service/pkg/llm"
	"github.com/haierkeys/fast-note-ai-service/pkg/workerpool"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// 环境变量名称
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvGithubToken = "GITHUB_TOKEN"
	EnvLLMAPIKey   = "LLM_API_KEY"
	EnvLLMEndpoint = "LLM_ENDPOINT"
	EnvLLMModel    = "LLM_MODEL"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	LLM      LLMConfig      `yaml:"llm"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"120"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof），为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9001"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// URL 连接串，环境变量 DATABASE_URL 优先
	URL string `yaml:"url"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/notes.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
	// Replicas 只读副本连接串
	Replicas []string `yaml:"replicas"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 请求上下文超时（秒），覆盖模型调用耗时
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// StatsCron 笔记统计刷新计划（cron 表达式）
	StatsCron string `yaml:"stats-cron" default:"*/5 * * * *"`
	// Worker Pool 配置，限制同时进行的模型调用
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"64"`
}

// LLMConfig 语言模型配置
type LLMConfig struct {
	// Endpoint OpenAI 兼容服务地址
	Endpoint string `yaml:"endpoint" default:"https://models.github.ai/inference"`
	// Model 模型名称
	Model string `yaml:"model" default:"openai/gpt-4.1-mini"`
	// APIKey 凭证，环境变量 GITHUB_TOKEN / LLM_API_KEY 优先
	APIKey string `yaml:"api-key"`
	// Temperature 采样温度
	Temperature float64 `yaml:"temperature" default:"1.0"`
	// TopP top_p
	TopP float64 `yaml:"top-p" default:"1.0"`
	// DefaultOutputLanguage 生成笔记默认语言
	DefaultOutputLanguage string `yaml:"default-output-language" default:"English"`
	// DefaultTranslateLanguage 翻译默认目标语言
	DefaultTranslateLanguage string `yaml:"default-translate-language" default:"Chinese"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent Jaeger agent 地址，为空时不上报
	JaegerAgent string `yaml:"jaeger-agent"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	// 只覆盖 YAML 中出现的字段，显式写出的 false / 0 / "" 保持原样
	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// .env 不存在时忽略；已存在的环境变量不会被覆盖
	_ = godotenv.Load(filepath.Join(filepath.Dir(realpath), ".env"), ".env")
	c.ApplyEnv()

	return c, realpath, nil
}

// ApplyEnv 使用环境变量覆盖配置
func (c *AppConfig) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDatabaseURL)); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.LLM.APIKey = v
	} else if v := os.Getenv(EnvGithubToken); v != "" {
		c.LLM.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLLMEndpoint)); v != "" {
		c.LLM.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLLMModel)); v != "" {
		c.LLM.Model = v
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()
	cfg.Name = "llm"

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetDaoConfig 转换为 DAO 层数据库配置
func (c *AppConfig) GetDaoConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		URL:             c.Database.URL,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		Replicas:        c.Database.Replicas,
		RunMode:         c.Server.RunMode,
	}
}

// GetLLMConfig 获取模型客户端配置
func (c *AppConfig) GetLLMConfig() llm.Config {
	return llm.Config{
		Endpoint: c.LLM.Endpoint,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
	}
}

// GetContextTimeout 获取请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	if c.App.DefaultContextTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}
