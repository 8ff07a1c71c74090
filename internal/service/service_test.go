package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/dao"
	"github.com/haierkeys/fast-note-ai-service/internal/domain"
	"github.com/haierkeys/fast-note-ai-service/pkg/llm"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, 10, 22, 9, 30, 15, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return fixedNow }
}

// stubCompleter 记录调用并返回预设结果
type stubCompleter struct {
	mu    sync.Mutex
	calls [][]llm.Message
	reply func(messages []llm.Message) (string, error)
}

func replyWith(text string, err error) *stubCompleter {
	return &stubCompleter{reply: func([]llm.Message) (string, error) { return text, err }}
}

func (s *stubCompleter) Complete(ctx context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, messages)
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.reply(messages)
}

func (s *stubCompleter) Calls() [][]llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]llm.Message(nil), s.calls...)
}

// failingRepo 所有写操作均失败
type failingRepo struct {
	domain.NoteRepository
	err error
}

func (f *failingRepo) Create(context.Context, *domain.Note) (*domain.Note, error) {
	return nil, f.err
}

func newTestRepo(t *testing.T) domain.NoteRepository {
	t.Helper()
	cfg := dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "notes.db"),
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}
	db, err := dao.NewDBEngineWithConfig(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return dao.NewNoteRepository(dao.New(db, context.Background(), dao.WithConfig(&cfg)))
}

func testConfig() *ServiceConfig {
	return &ServiceConfig{Now: fixedClock()}
}

func lastUserContent(calls [][]llm.Message) string {
	if len(calls) == 0 {
		return ""
	}
	msgs := calls[len(calls)-1]
	return msgs[len(msgs)-1].Content
}

var errBoom = errors.New("boom")

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
