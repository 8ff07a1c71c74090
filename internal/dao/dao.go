// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/model"
	"github.com/haierkeys/fast-note-ai-service/pkg/fileurl"
	"github.com/haierkeys/fast-note-ai-service/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// DatabaseConfig 数据库配置（DAO 层使用，与 app.DatabaseConfig 字段对应）
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string
	// URL 连接串，设置后优先于其他连接字段
	URL string
	// Path SQLite 数据库文件路径
	Path string
	// UserName 用户名
	UserName string
	// Password 密码
	Password string
	// Host 主机
	Host string
	// Name 数据库名
	Name string
	// TablePrefix 表前缀
	TablePrefix string
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool
	// Charset 字符集
	Charset string
	// ParseTime 是否解析时间
	ParseTime bool
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int
	// ConnMaxLifetime 连接最大生命周期
	ConnMaxLifetime string
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string
	// Replicas 只读副本连接串，列表与搜索查询路由到副本
	Replicas []string
	// RunMode 运行模式，debug 时输出 SQL
	RunMode string
}

// Dao 数据访问对象
type Dao struct {
	db     *gorm.DB
	ctx    context.Context
	config *DatabaseConfig
	logger *zap.Logger
}

// DaoOption Dao 配置选项
type DaoOption func(*Dao)

// WithConfig 设置数据库配置
func WithConfig(c *DatabaseConfig) DaoOption {
	return func(d *Dao) {
		d.config = c
	}
}

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) DaoOption {
	return func(d *Dao) {
		d.logger = l
	}
}

// New 创建 Dao 实例
func New(db *gorm.DB, ctx context.Context, opts ...DaoOption) *Dao {
	d := &Dao{db: db, ctx: ctx}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.config == nil {
		d.config = &DatabaseConfig{AutoMigrate: true}
	}
	if d.config.AutoMigrate {
		if err := model.AutoMigrate(db, ""); err != nil {
			d.logger.Error("auto migrate failed", zap.Error(err))
		}
	}
	return d
}

// DB 返回底层 gorm 连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// Ping 检查数据库连通性
func (d *Dao) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	var one int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}

// NormalizeDatabaseURL rewrites postgres:// to postgresql:// and appends sslmode=require when absent
// NormalizeDatabaseURL 规范化 Postgres 连接串
func NormalizeDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, "postgres://") {
		raw = "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	if !strings.HasPrefix(raw, "postgresql://") || strings.Contains(raw, "sslmode=") {
		return raw
	}
	if strings.Contains(raw, "?") {
		return raw + "&sslmode=require"
	}
	return raw + "?sslmode=require"
}

// NewDBEngineWithConfig 根据配置创建数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, zl *zap.Logger) (*gorm.DB, error) {
	if zl == nil {
		zl = zap.NewNop()
	}

	dialector, err := openDialector(c, c.URL)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database failed")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(util.MustParseDuration(c.ConnMaxLifetime, 30*time.Minute))
	sqlDB.SetConnMaxIdleTime(util.MustParseDuration(c.ConnMaxIdleTime, 10*time.Minute))

	if len(c.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, r := range c.Replicas {
			rd, err := openDialector(c, r)
			if err != nil {
				return nil, errors.Wrapf(err, "replica %s", redactURL(r))
			}
			replicas = append(replicas, rd)
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, errors.Wrap(err, "register read replicas failed")
		}
		zl.Info("database read replicas registered", zap.Int("count", len(replicas)))
	}

	_ = db.Use(&gormTracing.OpentracingPlugin{})

	return db, nil
}

// openDialector 选择数据库驱动；rawURL 非空时按其 scheme 选择
func openDialector(c DatabaseConfig, rawURL string) (gorm.Dialector, error) {
	if rawURL = NormalizeDatabaseURL(rawURL); rawURL != "" {
		switch {
		case strings.HasPrefix(rawURL, "postgresql://"):
			return postgres.Open(rawURL), nil
		case strings.HasPrefix(rawURL, "mysql://"):
			return mysql.Open(strings.TrimPrefix(rawURL, "mysql://")), nil
		case strings.HasPrefix(rawURL, "sqlite://"):
			c.Path = strings.TrimPrefix(rawURL, "sqlite://")
			return sqliteDialector(c.Path)
		}
		return nil, errors.Errorf("unsupported database url scheme: %s", redactURL(rawURL))
	}

	switch c.Type {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case "postgres", "postgresql":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=prefer",
			c.Host,
			c.UserName,
			c.Password,
			c.Name,
		)), nil
	case "sqlite", "":
		return sqliteDialector(c.Path)
	}
	return nil, errors.Errorf("unsupported database type: %s", c.Type)
}

func sqliteDialector(path string) (gorm.Dialector, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if path != ":memory:" && !fileurl.IsExist(path) {
		if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
			return nil, errors.Wrap(err, "create sqlite directory failed")
		}
	}
	if path != ":memory:" && !strings.Contains(path, "?") {
		path += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return sqlite.Open(path), nil
}

// redactURL 隐藏连接串中的密码
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
