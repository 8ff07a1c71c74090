package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestNoteService_CreateValidates(t *testing.T) {
	svc := NewNoteService(newTestRepo(t), nil, nil, nil, testConfig())
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.NoteCreateRequest{Title: "  ", Content: "c"})
	assert.ErrorIs(t, err, code.ErrorNoteTitleEmpty)

	_, err = svc.Create(ctx, &dto.NoteCreateRequest{Title: "t", Content: "\n"})
	assert.ErrorIs(t, err, code.ErrorNoteContentEmpty)

	n, err := svc.Create(ctx, &dto.NoteCreateRequest{
		Title:     "t",
		Content:   "c",
		EventDate: sp(""),
		EventTime: sp("08:15"),
	})
	require.NoError(t, err)
	assert.Nil(t, n.EventDate)
	assert.Equal(t, "08:15", *n.EventTime)
	assert.Equal(t, []string{}, n.Tags)
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
}

func TestNoteService_UpdateIsPartialAndMonotonic(t *testing.T) {
	svc := NewNoteService(newTestRepo(t), nil, nil, nil, testConfig())
	ctx := context.Background()

	n, err := svc.Create(ctx, &dto.NoteCreateRequest{Title: "t", Content: "c", Tags: []string{"x"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, n.ID, &dto.NoteUpdateRequest{})
	assert.ErrorIs(t, err, code.ErrorNoteUpdateEmpty)

	_, err = svc.Update(ctx, n.ID, &dto.NoteUpdateRequest{Title: sp(" ")})
	assert.ErrorIs(t, err, code.ErrorNoteTitleEmpty)

	prev := n.UpdatedAt.Time()
	for i := 0; i < 3; i++ {
		u, err := svc.Update(ctx, n.ID, &dto.NoteUpdateRequest{Content: sp("c2")})
		require.NoError(t, err)
		assert.Equal(t, "t", u.Title)
		assert.Equal(t, "c2", u.Content)
		assert.Equal(t, []string{"x"}, u.Tags)
		assert.True(t, u.UpdatedAt.Time().After(prev), "updated_at must strictly increase")
		assert.True(t, u.CreatedAt.Time().Equal(n.CreatedAt.Time()))
		prev = u.UpdatedAt.Time()
	}

	_, err = svc.Update(ctx, uuid.NewString(), &dto.NoteUpdateRequest{Title: sp("x")})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestNoteService_GetDeleteNotFound(t *testing.T) {
	svc := NewNoteService(newTestRepo(t), nil, nil, nil, testConfig())
	ctx := context.Background()

	_, err := svc.Get(ctx, "abc")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	n, err := svc.Create(ctx, &dto.NoteCreateRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.ErrorIs(t, svc.Delete(ctx, n.ID), code.ErrorNoteNotFound)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoteService_ListAndSearch(t *testing.T) {
	var tick atomic.Int64
	cfg := &ServiceConfig{Now: func() time.Time {
		return fixedNow.Add(time.Duration(tick.Add(1)) * time.Second)
	}}
	svc := NewNoteService(newTestRepo(t), nil, nil, nil, cfg)
	ctx := context.Background()

	a, err := svc.Create(ctx, &dto.NoteCreateRequest{Title: "Shopping", Content: "buy milk"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, &dto.NoteCreateRequest{Title: "Milk tea", Content: "try the new shop"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	res, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	res, err = svc.Search(ctx, "ilk")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, b.ID, res[0].ID)
	assert.Equal(t, a.ID, res[1].ID)
}

func TestNoteService_Translate(t *testing.T) {
	stub := &stubCompleter{reply: func(messages []llm.Message) (string, error) {
		return "[zh] " + messages[0].Content, nil
	}}
	svc := NewNoteService(newTestRepo(t), stub, nil, nil, testConfig())
	ctx := context.Background()

	n, err := svc.Create(ctx, &dto.NoteCreateRequest{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	res, err := svc.Translate(ctx, n.ID, &dto.NoteTranslateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "[zh] Translate the following text to Chinese: \n\nHello", res.TranslatedTitle)
	assert.Equal(t, "[zh] Translate the following text to Chinese: \n\nWorld", res.TranslatedContent)

	calls := stub.Calls()
	require.Len(t, calls, 2)
	for _, msgs := range calls {
		require.Len(t, msgs, 1)
		assert.Equal(t, llm.RoleUser, msgs[0].Role)
	}

	res, err = svc.Translate(ctx, n.ID, &dto.NoteTranslateRequest{TargetLanguage: "japanese"})
	require.NoError(t, err)
	assert.True(t, containsAll(res.TranslatedTitle, "Japanese", "Hello"))

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
}

func TestNoteService_TranslateFailures(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	failContent := &stubCompleter{reply: func(messages []llm.Message) (string, error) {
		if containsAll(messages[0].Content, "World") {
			return "", errBoom
		}
		return "ok", nil
	}}
	svc := NewNoteService(repo, failContent, nil, nil, testConfig())

	n, err := svc.Create(ctx, &dto.NoteCreateRequest{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	_, err = svc.Translate(ctx, n.ID, nil)
	assert.ErrorIs(t, err, code.ErrorCompletionFailed)

	_, err = svc.Translate(ctx, uuid.NewString(), nil)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
	assert.Equal(t, 2, len(failContent.Calls()))
}
