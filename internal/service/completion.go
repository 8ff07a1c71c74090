package service

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/llm"
	"github.com/haierkeys/fast-note-ai-service/pkg/logger"
	"github.com/haierkeys/fast-note-ai-service/pkg/workerpool"

	"go.uber.org/zap"
)

// completer runs completions through the bounded pool and maps failures to codes
// completer 通过 worker pool 调用模型并转换错误码
type completer struct {
	client llm.ChatCompleter
	pool   *workerpool.Pool
	cfg    LLMServiceConfig
	logger *zap.Logger
}

func newCompleter(client llm.ChatCompleter, pool *workerpool.Pool, cfg LLMServiceConfig, l *zap.Logger) *completer {
	if l == nil {
		l = zap.NewNop()
	}
	return &completer{client: client, pool: pool, cfg: cfg, logger: l}
}

// complete 调用一次模型；失败不重试
func (c *completer) complete(ctx context.Context, method string, messages []llm.Message) (string, error) {
	if c.client == nil {
		return "", code.ErrorCompletionNotConfig
	}

	var text string
	run := func(ctx context.Context) error {
		var err error
		text, err = c.client.Complete(ctx, messages,
			llm.WithTemperature(c.cfg.Temperature),
			llm.WithTopP(c.cfg.TopP),
		)
		return err
	}

	start := time.Now()
	var err error
	if c.pool != nil {
		err = c.pool.Submit(ctx, run)
	} else {
		err = run(ctx)
	}

	switch {
	case err == nil:
		c.logger.Debug("completion finished",
			zap.String(logger.FieldMethod, method),
			zap.Duration(logger.FieldDuration, time.Since(start)))
		return text, nil
	case errors.Is(err, workerpool.ErrWorkerPoolFull), errors.Is(err, workerpool.ErrWorkerPoolClosed):
		c.logger.Warn("completion rejected",
			zap.String(logger.FieldMethod, method),
			zap.Error(err))
		return "", code.ErrorCompletionBusy
	default:
		c.logger.Warn("completion failed",
			zap.String(logger.FieldMethod, method),
			zap.Duration(logger.FieldDuration, time.Since(start)),
			zap.Error(err))
		return "", code.ErrorCompletionFailed.WithDetails(err.Error())
	}
}
