// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/dao"
	"github.com/haierkeys/fast-note-ai-service/internal/domain"
	"github.com/haierkeys/fast-note-ai-service/internal/service"
	pkgapp "github.com/haierkeys/fast-note-ai-service/pkg/app"
	"github.com/haierkeys/fast-note-ai-service/pkg/llm"
	"github.com/haierkeys/fast-note-ai-service/pkg/workerpool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件，限制同时进行的模型调用
	workerPool *workerpool.Pool

	// LLM 模型客户端，未配置凭证时为 nil
	LLM llm.ChatCompleter

	// Repository 层
	NoteRepo domain.NoteRepository

	// Service 层
	NoteService   service.NoteService
	IngestService service.IngestService

	// StartTime 启动时间
	StartTime time.Time

	// 关闭控制
	shutdownCh chan struct{}
}

// Option App 创建选项
type Option func(*options)

type options struct {
	completer llm.ChatCompleter
	clock     func() time.Time
}

// WithChatCompleter 使用指定的模型客户端替代按配置创建的客户端
func WithChatCompleter(c llm.ChatCompleter) Option {
	return func(o *options) { o.completer = c }
}

// WithClock 设置服务层时钟
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化模型客户端
	a.LLM = o.completer
	if a.LLM == nil {
		client, err := llm.New(cfg.GetLLMConfig())
		switch {
		case err == nil:
			a.LLM = client
			logger.Info("LLM client configured",
				zap.String("endpoint", cfg.LLM.Endpoint),
				zap.String("model", cfg.LLM.Model))
		default:
			logger.Warn("LLM client not configured, natural language and translate endpoints are disabled",
				zap.Stringer("llm", cfg.GetLLMConfig()),
				zap.Error(err))
		}
	}

	// 初始化 DAO（使用依赖注入）
	dbConfig := cfg.GetDaoConfig()
	a.Dao = dao.New(db, context.Background(),
		dao.WithConfig(&dbConfig),
		dao.WithLogger(logger),
	)

	// 初始化 Repository 层
	a.NoteRepo = dao.NewNoteRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		LLM: service.LLMServiceConfig{
			Temperature:              cfg.LLM.Temperature,
			TopP:                     cfg.LLM.TopP,
			DefaultOutputLanguage:    cfg.LLM.DefaultOutputLanguage,
			DefaultTranslateLanguage: cfg.LLM.DefaultTranslateLanguage,
		},
		Now: o.clock,
	}

	// 初始化 Service 层（依赖注入）
	a.NoteService = service.NewNoteService(a.NoteRepo, a.LLM, a.workerPool, logger, svcConfig)
	a.IngestService = service.NewIngestService(a.NoteRepo, a.LLM, a.workerPool, logger, svcConfig)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("workerPoolQueueSize", wpConfig.QueueSize))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// LLMEnabled 模型客户端是否可用
func (a *App) LLMEnabled() bool {
	return a.LLM != nil
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待进行中的模型调用完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 2. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}
