package upgrade

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/model"

	"gorm.io/gorm"
)

// NoteBackfillMigrate 补齐旧版 notes 表中的空值
// 旧表的 created_at / updated_at 允许为空且缺少 tags 等列，新模型要求时间非空，需在自动迁移收紧约束之前执行
type NoteBackfillMigrate struct{}

// Version 返回版本号
func (m *NoteBackfillMigrate) Version() string {
	return "1.0.0"
}

// Description 返回描述
func (m *NoteBackfillMigrate) Description() string {
	return "Back-fill null timestamps and empty optional fields on legacy notes"
}

// Up 执行升级
func (m *NoteBackfillMigrate) Up(db *gorm.DB, ctx context.Context) error {
	migrator := db.Migrator()
	if !migrator.HasTable(&model.Note{}) {
		return nil
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	table := db.WithContext(ctx).Table(model.NoteTable(db))

	if err := table.Session(&gorm.Session{}).
		Where("created_at IS NULL AND updated_at IS NOT NULL").
		Update("created_at", gorm.Expr("updated_at")).Error; err != nil {
		return err
	}
	if err := table.Session(&gorm.Session{}).
		Where("created_at IS NULL").
		Update("created_at", now).Error; err != nil {
		return err
	}
	if err := table.Session(&gorm.Session{}).
		Where("updated_at IS NULL OR updated_at < created_at").
		Update("updated_at", gorm.Expr("created_at")).Error; err != nil {
		return err
	}

	// 旧表缺少的列在这里补上，tags 需要填充空串，否则读取时无法扫描 NULL
	for _, field := range []string{"Tags", "EventDate", "EventTime", "UserID"} {
		if migrator.HasColumn(&model.Note{}, field) {
			continue
		}
		if err := migrator.AddColumn(&model.Note{}, field); err != nil {
			return err
		}
	}
	if err := table.Session(&gorm.Session{}).
		Where("tags IS NULL").
		Update("tags", "").Error; err != nil {
		return err
	}

	for _, column := range []string{"event_date", "event_time"} {
		if err := table.Session(&gorm.Session{}).
			Where(column+" = ?", "").
			Update(column, nil).Error; err != nil {
			return err
		}
	}

	return nil
}
