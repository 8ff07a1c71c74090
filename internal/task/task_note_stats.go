package task

import (
	"context"
	"strings"

	"github.com/haierkeys/fast-note-ai-service/internal/app"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var notesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "fast_note_ai",
	Name:      "notes_total",
	Help:      "Number of stored notes, refreshed by the note stats task.",
})

func init() {
	prometheus.MustRegister(notesTotal)

	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewNoteStatsTask(appContainer)
	})
}

// NoteStatsTask 定期统计笔记数量并写入 prometheus
type NoteStatsTask struct {
	app      *app.App
	schedule cron.Schedule
}

// NewNoteStatsTask 按 app.stats-cron 创建统计任务，表达式为空时不启用
func NewNoteStatsTask(appContainer *app.App) (Task, error) {
	expr := strings.TrimSpace(appContainer.Config().App.StatsCron)
	if expr == "" {
		return nil, nil
	}
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid app.stats-cron %q", expr)
	}
	return &NoteStatsTask{app: appContainer, schedule: schedule}, nil
}

// Name 返回任务名称
func (t *NoteStatsTask) Name() string {
	return "NoteStats"
}

// Schedule 返回执行计划
func (t *NoteStatsTask) Schedule() cron.Schedule {
	return t.schedule
}

// IsStartupRun 启动时先统计一次
func (t *NoteStatsTask) IsStartupRun() bool {
	return true
}

// Run 执行统计
func (t *NoteStatsTask) Run(ctx context.Context) error {
	count, err := t.app.NoteService.Count(ctx)
	if err != nil {
		return err
	}
	notesTotal.Set(float64(count))

	t.app.Logger().Debug("task log",
		zap.String("task", t.Name()),
		zap.Int64("notes", count))
	return nil
}
