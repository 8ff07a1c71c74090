package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	internalApp "github.com/haierkeys/fast-note-ai-service/internal/app"
	"github.com/haierkeys/fast-note-ai-service/internal/dao"
	"github.com/haierkeys/fast-note-ai-service/internal/upgrade"
	"github.com/haierkeys/fast-note-ai-service/pkg/fileurl"
	"github.com/haierkeys/fast-note-ai-service/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

// bootstrapLogger 启动阶段日志器，主日志器初始化之前使用
var bootstrapLogger *zap.Logger

// configCandidates 未指定配置文件时按顺序查找
var configCandidates = []string{
	"config/config-dev.yaml",
	"config.yaml",
	"config/config.yaml",
}

func init() {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// 输出到 stderr，stdout 留给 mcp 与 ingest 命令
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	consoleWriter := zapcore.Lock(os.Stderr)

	level := zapcore.InfoLevel
	if os.Getenv("DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(consoleEncoder, consoleWriter, level)
	bootstrapLogger = zap.New(core, zap.AddCaller())
}

// BootstrapLogger 获取启动阶段日志器
func BootstrapLogger() *zap.Logger {
	return bootstrapLogger
}

// resolveConfigPath returns config when set, otherwise the first existing candidate,
// writing the embedded default to config/config.yaml when none exists
// resolveConfigPath 解析配置文件路径，均不存在时写入内置默认配置
func resolveConfigPath(config string) (string, error) {
	if len(config) > 0 {
		return config, nil
	}
	for _, p := range configCandidates {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	config = configCandidates[len(configCandidates)-1]
	bootstrapLogger.Warn("config file not found, creating default config", zap.String("path", config))
	if _, err := fileurl.WriteIfAbsent(config, []byte(configDefault)); err != nil {
		return "", fmt.Errorf("config file auto create error: %w", err)
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", config))
	return config, nil
}

// initLoggerWithConfig 初始化日志器
func initLoggerWithConfig(cfg *internalApp.AppConfig) (*zap.Logger, error) {
	lg, err := logger.NewLogger(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Production: cfg.Log.Production,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return lg, nil
}

// initStorageWithConfig 初始化存储目录
func initStorageWithConfig(cfg *internalApp.AppConfig) error {
	dirs := []string{
		filepath.Dir(cfg.Log.File),
	}
	if cfg.Database.URL == "" && cfg.Database.Type == "sqlite" {
		dirs = append(dirs, filepath.Dir(cfg.Database.Path))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0754); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// initDatabaseWithConfig opens the database and applies pending schema upgrades
// before the App container auto-migrates the models
// initDatabaseWithConfig 打开数据库并执行待处理的升级，须在 NewApp 自动迁移之前完成
func initDatabaseWithConfig(cfg *internalApp.AppConfig, lg *zap.Logger) (*gorm.DB, error) {
	db, err := dao.NewDBEngineWithConfig(cfg.GetDaoConfig(), lg)
	if err != nil {
		return nil, err
	}
	if err := upgrade.Execute(db, lg, internalApp.Version); err != nil {
		return nil, fmt.Errorf("upgrade.Execute: %w", err)
	}
	return db, nil
}

// newAppWithConfig builds the App container for commands that do not serve HTTP
// newAppWithConfig 为不启动 HTTP 服务的命令创建 App Container
func newAppWithConfig(config string) (*internalApp.App, error) {
	config, err := resolveConfigPath(config)
	if err != nil {
		return nil, err
	}
	appConfig, _, err := internalApp.LoadConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg, err := initLoggerWithConfig(appConfig)
	if err != nil {
		return nil, err
	}
	if err := initStorageWithConfig(appConfig); err != nil {
		return nil, fmt.Errorf("initStorage: %w", err)
	}
	db, err := initDatabaseWithConfig(appConfig, lg)
	if err != nil {
		return nil, fmt.Errorf("initDatabase: %w", err)
	}
	return internalApp.NewApp(appConfig, lg, db)
}
