package upgrade

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/haierkeys/fast-note-ai-service/internal/dao"
	"github.com/haierkeys/fast-note-ai-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "legacy.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type recordingMigrate struct {
	version string
	calls   *[]string
	err     error
}

func (r *recordingMigrate) Version() string { return r.version }
func (r *recordingMigrate) Description() string { return "test " + r.version }
func (r *recordingMigrate) Up(*gorm.DB, context.Context) error {
	*r.calls = append(*r.calls, r.version)
	return r.err
}

func TestMigrationManager_OrderAndIdempotence(t *testing.T) {
	db := newTestDB(t)
	var calls []string

	m := NewMigrationManager(db, zap.NewNop(), "1.2.0")
	m.migrations = []Migration{
		&recordingMigrate{version: "1.1.0", calls: &calls},
		&recordingMigrate{version: "v1.0.1", calls: &calls},
		&recordingMigrate{version: "2.0.0", calls: &calls},
	}

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{"v1.0.1", "1.1.0"}, calls)

	require.NoError(t, m.Run(context.Background()))
	assert.Len(t, calls, 2)

	var versions []SchemaVersion
	require.NoError(t, db.Order("version").Find(&versions).Error)
	require.Len(t, versions, 2)
	assert.Equal(t, "v1.0.1", versions[0].Version)
	assert.Equal(t, "v1.1.0", versions[1].Version)
}

func TestMigrationManager_FailureIsNotRecorded(t *testing.T) {
	db := newTestDB(t)
	var calls []string

	m := NewMigrationManager(db, zap.NewNop(), "1.0.0")
	m.migrations = []Migration{&recordingMigrate{version: "1.0.0", calls: &calls, err: errors.New("boom")}}

	err := m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v1.0.0")

	var count int64
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMigrationManager_InvalidVersions(t *testing.T) {
	db := newTestDB(t)
	assert.Error(t, NewMigrationManager(db, zap.NewNop(), "latest").Run(context.Background()))

	var calls []string
	m := NewMigrationManager(db, zap.NewNop(), "1.0.0")
	m.migrations = []Migration{&recordingMigrate{version: "one", calls: &calls}}
	assert.Error(t, m.Run(context.Background()))

	assert.Error(t, Execute(nil, zap.NewNop(), "1.0.0"))
	assert.Error(t, Execute(db, nil, "1.0.0"))
}

func TestNoteBackfillMigrate_FreshDatabase(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Execute(db, zap.NewNop(), "1.0.0"))
	assert.False(t, db.Migrator().HasTable(model.TableNameNote))
}

func TestNoteBackfillMigrate_LegacyTable(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Exec(`CREATE TABLE notes (
		id varchar(36) PRIMARY KEY,
		title varchar(200) NOT NULL,
		content text NOT NULL,
		created_at datetime,
		updated_at datetime,
		user_id varchar(64)
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO notes (id, title, content, created_at, updated_at) VALUES
		('8f9f4a52-2d52-4b43-9f5e-1c1f3a7e0001', 'only updated', 'c', NULL, '2024-01-01 10:00:00'),
		('8f9f4a52-2d52-4b43-9f5e-1c1f3a7e0002', 'no times', 'c', NULL, NULL),
		('8f9f4a52-2d52-4b43-9f5e-1c1f3a7e0003', 'skewed', 'c', '2024-02-01 10:00:00', '2024-01-01 10:00:00')`).Error)

	require.NoError(t, Execute(db, zap.NewNop(), "1.0.0"))
	require.NoError(t, model.AutoMigrate(db, ""))

	repo := dao.NewNoteRepository(dao.New(db, context.Background(), dao.WithConfig(&dao.DatabaseConfig{})))
	notes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 3)

	for _, n := range notes {
		assert.False(t, n.CreatedAt.IsZero(), n.Title)
		assert.False(t, n.UpdatedAt.Before(n.CreatedAt), n.Title)
		assert.NotNil(t, n.Tags, n.Title)
		assert.Empty(t, n.Tags, n.Title)
		assert.Nil(t, n.EventDate, n.Title)
	}

	got, err := repo.GetByID(context.Background(), "8f9f4a52-2d52-4b43-9f5e-1c1f3a7e0001")
	require.NoError(t, err)
	assert.Equal(t, got.UpdatedAt, got.CreatedAt)

	var applied int64
	require.NoError(t, db.Model(&SchemaVersion{}).Where("version = ?", "v1.0.0").Count(&applied).Error)
	assert.Equal(t, int64(1), applied)
}

func TestExecute_TablePrefix(t *testing.T) {
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "prefixed.db"),
		TablePrefix:  "fn_",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.Exec(`CREATE TABLE fn_notes (
		id varchar(36) PRIMARY KEY,
		title varchar(200) NOT NULL,
		content text NOT NULL,
		created_at datetime,
		updated_at datetime
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO fn_notes (id, title, content, created_at, updated_at) VALUES
		('8f9f4a52-2d52-4b43-9f5e-1c1f3a7e0101', 'legacy', 'c', NULL, '2024-01-01 10:00:00')`).Error)

	require.NoError(t, Execute(db, zap.NewNop(), "1.0.0"))

	assert.Equal(t, "fn_notes", model.NoteTable(db))
	assert.True(t, db.Migrator().HasTable("fn_schema_version"))
	assert.False(t, db.Migrator().HasTable("schema_version"))
	assert.False(t, db.Migrator().HasTable(model.TableNameNote))

	var missing int64
	require.NoError(t, db.Table("fn_notes").Where("created_at IS NULL").Count(&missing).Error)
	assert.Zero(t, missing)
}
