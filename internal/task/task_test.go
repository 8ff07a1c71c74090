package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/app"
	"github.com/haierkeys/fast-note-ai-service/internal/dao"
	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	"github.com/haierkeys/fast-note-ai-service/pkg/safe_close"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type countingTask struct {
	runs     atomic.Int32
	schedule cron.Schedule
	startup  bool
	panicAt  int32
}

func (c *countingTask) Name() string { return "counting" }
func (c *countingTask) Schedule() cron.Schedule { return c.schedule }
func (c *countingTask) IsStartupRun() bool { return c.startup }
func (c *countingTask) Run(context.Context) error {
	n := c.runs.Add(1)
	if n == c.panicAt {
		panic("boom")
	}
	if n%2 == 0 {
		return errors.New("even run")
	}
	return nil
}

func TestScheduler_RunsOnScheduleUntilClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	schedule, err := ParseSchedule("@every 10ms")
	require.NoError(t, err)

	sc := safe_close.NewSafeClose()
	task := &countingTask{schedule: schedule, startup: true, panicAt: 2}

	s := NewScheduler(zap.NewNop(), sc)
	s.AddTask(task)
	s.Start()

	require.Eventually(t, func() bool { return task.runs.Load() >= 4 }, 2*time.Second, 5*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())

	stopped := task.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, task.runs.Load())
}

func TestScheduler_StartupOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	sc := safe_close.NewSafeClose()
	task := &countingTask{startup: true}

	s := NewScheduler(zap.NewNop(), sc)
	s.AddTask(task)
	s.Start()

	require.NoError(t, sc.WaitClosed())
	assert.Equal(t, int32(1), task.runs.Load())

	NewScheduler(zap.NewNop(), safe_close.NewSafeClose()).Start()
}

func TestParseSchedule(t *testing.T) {
	for _, expr := range []string{"*/5 * * * *", "@hourly", "@every 1m"} {
		_, err := ParseSchedule(expr)
		assert.NoError(t, err, expr)
	}
	_, err := ParseSchedule("every five minutes")
	assert.Error(t, err)
}

func newTestApp(t *testing.T, statsCron string) *app.App {
	t.Helper()
	t.Setenv(app.EnvDatabaseURL, "")
	require.NoError(t, os.Unsetenv(app.EnvDatabaseURL))

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("app:\n  stats-cron: \""+statsCron+"\"\n"), 0644))

	cfg, _, err := app.LoadConfig(cfgFile)
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(dir, "notes.db")

	db, err := dao.NewDBEngineWithConfig(cfg.GetDaoConfig(), nil)
	require.NoError(t, err)

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestNoteStatsTask(t *testing.T) {
	a := newTestApp(t, "*/5 * * * *")

	task, err := NewNoteStatsTask(a)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "NoteStats", task.Name())
	assert.True(t, task.IsStartupRun())
	assert.NotNil(t, task.Schedule())

	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := a.NoteService.Create(ctx, &dto.NoteCreateRequest{Title: title, Content: "c"})
		require.NoError(t, err)
	}

	require.NoError(t, task.Run(ctx))
	assert.Equal(t, float64(3), testutil.ToFloat64(notesTotal))
}

func TestNoteStatsTask_Config(t *testing.T) {
	task, err := NewNoteStatsTask(newTestApp(t, ""))
	require.NoError(t, err)
	assert.Nil(t, task)

	_, err = NewNoteStatsTask(newTestApp(t, "not a cron"))
	assert.Error(t, err)
}

func TestManager_RegisterTasks(t *testing.T) {
	a := newTestApp(t, "@every 1h")
	sc := safe_close.NewSafeClose()

	m := NewManager(zap.NewNop(), sc, a)
	require.NoError(t, m.RegisterTasks())
	require.Len(t, m.scheduler.tasks, 1)
	m.Start()

	require.Eventually(t, func() bool { return testutil.ToFloat64(notesTotal) == 0 }, time.Second, 5*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
}
