// Package workerpool bounds how many blocking jobs run at once
// Package workerpool 限制同时执行的阻塞任务数量，用于约束对外部服务的并发请求
package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// 错误定义
var (
	// ErrWorkerPoolFull 当任务队列已满时返回
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 当 Worker Pool 已关闭时返回
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 当任务在开始执行前被取消时返回
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config Worker Pool 配置
type Config struct {
	// Name 用于日志与指标标签
	Name string
	// MaxWorkers 最大并发 worker 数量，默认 8
	MaxWorkers int
	// QueueSize 等待队列大小，默认 64
	QueueSize int
	// WarningPercent 告警阈值百分比，默认 0.8 (80%)
	WarningPercent float64
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Name:           "default",
		MaxWorkers:     8,
		QueueSize:      64,
		WarningPercent: 0.8,
	}
}

var activeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "fast_note_ai",
	Subsystem: "workerpool",
	Name:      "active_tasks",
	Help:      "Number of tasks currently executing in the pool.",
}, []string{"pool"})

var rejectedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fast_note_ai",
	Subsystem: "workerpool",
	Name:      "rejected_total",
	Help:      "Tasks rejected because the pool queue was full or closed.",
}, []string{"pool"})

func init() {
	prometheus.MustRegister(activeGauge, rejectedCounter)
}

type taskWrapper struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Pool 管理 goroutine 生命周期的 Worker Pool
type Pool struct {
	config Config
	logger *zap.Logger

	taskCh   chan taskWrapper
	workerWg sync.WaitGroup

	activeCount atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// New 创建新的 Worker Pool
// cfg 为 nil 时使用默认配置，logger 为 nil 时使用 nop logger
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.Name != "" {
			c.Name = cfg.Name
		}
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
		if cfg.WarningPercent > 0 && cfg.WarningPercent <= 1 {
			c.WarningPercent = cfg.WarningPercent
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		config: c,
		logger: logger,
		taskCh: make(chan taskWrapper, c.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < c.MaxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.String("pool", c.Name),
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))

	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskCh:
			if !ok {
				return
			}
			p.executeTask(task)
		}
	}
}

func (p *Pool) executeTask(task taskWrapper) {
	active := p.activeCount.Add(1)
	activeGauge.WithLabelValues(p.config.Name).Inc()
	defer func() {
		p.activeCount.Add(-1)
		activeGauge.WithLabelValues(p.config.Name).Dec()
	}()

	threshold := int64(float64(p.config.MaxWorkers) * p.config.WarningPercent)
	if active >= threshold {
		p.logger.Warn("worker pool approaching capacity",
			zap.String("pool", p.config.Name),
			zap.Int64("activeCount", active),
			zap.Int("maxWorkers", p.config.MaxWorkers))
	}

	// 调用方已放弃的任务不再执行
	var err error
	if task.ctx.Err() != nil {
		err = ErrTaskCancelled
	} else {
		err = task.fn(task.ctx)
	}

	// done 带缓冲，调用方离开后也不会阻塞
	task.done <- err
}

// Submit queues fn and waits for its result, the caller's ctx or pool shutdown
// Submit 提交任务并等待完成；队列满或池已关闭时立即返回错误
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		rejectedCounter.WithLabelValues(p.config.Name).Inc()
		return ErrWorkerPoolClosed
	}

	task := taskWrapper{
		ctx:  ctx,
		fn:   fn,
		done: make(chan error, 1),
	}

	select {
	case p.taskCh <- task:
		p.mu.RUnlock()
	default:
		p.mu.RUnlock()
		rejectedCounter.WithLabelValues(p.config.Name).Inc()
		return ErrWorkerPoolFull
	}

	select {
	case err := <-task.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrWorkerPoolClosed
	}
}

// ActiveCount 返回当前活跃任务数
func (p *Pool) ActiveCount() int64 {
	return p.activeCount.Load()
}

// QueuedCount 返回当前队列中等待的任务数
func (p *Pool) QueuedCount() int {
	return len(p.taskCh)
}

// Shutdown 关闭 Worker Pool，等待已入队任务完成；ctx 到期后强制取消
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.taskCh)
	p.mu.Unlock()

	p.logger.Info("worker pool shutting down",
		zap.String("pool", p.config.Name),
		zap.Int64("activeCount", p.activeCount.Load()),
		zap.Int("queuedCount", len(p.taskCh)))

	done := make(chan struct{})
	go func() {
		p.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool shutdown completed", zap.String("pool", p.config.Name))
		return nil
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn("worker pool shutdown timeout, forcing cancellation", zap.String("pool", p.config.Name))
		return ctx.Err()
	}
}
