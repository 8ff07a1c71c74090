package dao

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	cfg := DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "notes.db"),
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}
	db, err := NewDBEngineWithConfig(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db, context.Background(), WithConfig(&cfg))
}

func newTestRepo(t *testing.T) domain.NoteRepository {
	return NewNoteRepository(newTestDao(t))
}

func sp(s string) *string { return &s }

func seedNote(t *testing.T, repo domain.NoteRepository, title, content string, at time.Time) *domain.Note {
	t.Helper()
	n, err := repo.Create(context.Background(), &domain.Note{
		Title:     title,
		Content:   content,
		Tags:      []string{"a", "b"},
		CreatedAt: at,
		UpdatedAt: at,
	})
	require.NoError(t, err)
	return n
}

func TestNoteRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 10, 22, 9, 30, 0, 0, time.UTC)

	created, err := repo.Create(ctx, &domain.Note{
		Title:     "Badminton at PolyU",
		Content:   "Play at 5pm",
		Tags:      []string{"badminton", "sports", "tomorrow"},
		EventDate: sp("2025-10-23"),
		EventTime: sp("17:00"),
		Owner:     sp("user-1"),
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Badminton at PolyU", got.Title)
	assert.Equal(t, "Play at 5pm", got.Content)
	assert.Equal(t, []string{"badminton", "sports", "tomorrow"}, got.Tags)
	assert.Equal(t, "2025-10-23", *got.EventDate)
	assert.Equal(t, "17:00", *got.EventTime)
	assert.Equal(t, "user-1", *got.Owner)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.True(t, got.UpdatedAt.Equal(now))

	bare := seedNote(t, repo, "t", "c", now)
	got, err = repo.GetByID(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EventDate)
	assert.Nil(t, got.EventTime)
	assert.Nil(t, got.Owner)
}

func TestNoteRepository_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "", uuid.NewString()} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound, id)

		_, err = repo.Update(ctx, id, func(*domain.Note) error { return nil })
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound, id)

		assert.ErrorIs(t, repo.Delete(ctx, id), gorm.ErrRecordNotFound, id)
	}
}

func TestNoteRepository_ListOrdersByUpdatedAtDesc(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := seedNote(t, repo, "oldest", "c", base)
	newest := seedNote(t, repo, "newest", "c", base.Add(2*time.Hour))
	middle := seedNote(t, repo, "middle", "c", base.Add(time.Hour))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	_, err = repo.Update(ctx, oldest.ID, func(n *domain.Note) error {
		n.Touch(base.Add(3 * time.Hour))
		return nil
	})
	require.NoError(t, err)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, oldest.ID, list[0].ID)
}

func TestNoteRepository_UpdateMergesAndRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := seedNote(t, repo, "title", "content", base)

	title := "renamed"
	updated, err := repo.Update(ctx, n.ID, func(note *domain.Note) error {
		(&domain.NotePatch{Title: &title}).Apply(note)
		note.Touch(base)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "content", updated.Content)
	assert.Equal(t, []string{"a", "b"}, updated.Tags)
	assert.True(t, updated.UpdatedAt.After(n.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(n.CreatedAt))

	boom := errors.New("boom")
	_, err = repo.Update(ctx, n.ID, func(note *domain.Note) error {
		note.Title = "never stored"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
}

func TestNoteRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	n := seedNote(t, repo, "t", "c", time.Now())

	require.NoError(t, repo.Delete(ctx, n.ID))
	_, err := repo.GetByID(ctx, n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, n.ID), gorm.ErrRecordNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoteRepository_Search(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := seedNote(t, repo, "Grocery list", "milk and eggs", base)
	b := seedNote(t, repo, "Meeting", "discuss grocery budget", base.Add(time.Hour))
	c := seedNote(t, repo, "Discount", "100% off", base.Add(2*time.Hour))

	empty, err := repo.Search(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	res, err := repo.Search(ctx, "rocery")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, b.ID, res[0].ID)
	assert.Equal(t, a.ID, res[1].ID)

	res, err = repo.Search(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, c.ID, res[0].ID)

	res, err = repo.Search(ctx, "0%_o")
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = repo.Search(ctx, "nothing matches this")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestNoteRepository_CreateGetProperty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("created notes read back unchanged with unique ids", prop.ForAll(
		func(title, content string, tags []string) bool {
			at := time.Now().UTC().Truncate(time.Millisecond)
			a, err := repo.Create(ctx, &domain.Note{Title: title, Content: content, Tags: tags, CreatedAt: at, UpdatedAt: at})
			if err != nil {
				return false
			}
			b, err := repo.Create(ctx, &domain.Note{Title: title, Content: content, Tags: tags, CreatedAt: at, UpdatedAt: at})
			if err != nil || a.ID == b.ID {
				return false
			}
			got, err := repo.GetByID(ctx, a.ID)
			if err != nil {
				return false
			}
			return got.Title == title && got.Content == content &&
				len(got.Tags) == len(tags) && !got.UpdatedAt.Before(got.CreatedAt)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}

func TestNormalizeDatabaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"postgres://u:p@host/db", "postgresql://u:p@host/db?sslmode=require"},
		{"postgresql://u:p@host/db?application_name=x", "postgresql://u:p@host/db?application_name=x&sslmode=require"},
		{"postgres://u:p@host/db?sslmode=disable", "postgresql://u:p@host/db?sslmode=disable"},
		{"mysql://u:p@tcp(h)/db", "mysql://u:p@tcp(h)/db"},
		{"  sqlite://notes.db ", "sqlite://notes.db"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDatabaseURL(tt.in), tt.in)
	}
}

func TestDao_Ping(t *testing.T) {
	d := newTestDao(t)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestDao_TablePrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
		absent string
	}{
		{name: "prefixed", prefix: "fn_", want: "fn_notes", absent: "notes"},
		{name: "no prefix", prefix: "", want: "notes", absent: "fn_notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DatabaseConfig{
				Type:         "sqlite",
				Path:         filepath.Join(t.TempDir(), "notes.db"),
				TablePrefix:  tt.prefix,
				AutoMigrate:  true,
				MaxIdleConns: 1,
				MaxOpenConns: 1,
			}
			db, err := NewDBEngineWithConfig(cfg, nil)
			require.NoError(t, err)
			t.Cleanup(func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			})

			repo := NewNoteRepository(New(db, context.Background(), WithConfig(&cfg)))
			created := seedNote(t, repo, "prefixed", "body", time.Now().UTC())

			assert.True(t, db.Migrator().HasTable(tt.want))
			assert.False(t, db.Migrator().HasTable(tt.absent))

			got, err := repo.GetByID(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, "prefixed", got.Title)
		})
	}
}
