package dao

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/domain"
	"github.com/haierkeys/fast-note-ai-service/internal/model"
	"github.com/haierkeys/fast-note-ai-service/pkg/timex"
	"github.com/haierkeys/fast-note-ai-service/pkg/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// likeEscape LIKE 转义字符，避免依赖各数据库对反斜杠的不同处理
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将 DAO Note 转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Tags:      util.SplitTags(m.Tags),
		EventDate: m.EventDate,
		EventTime: m.EventTime,
		Owner:     m.UserID,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return &model.Note{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      util.JoinTags(note.Tags),
		EventDate: note.EventDate,
		EventTime: note.EventTime,
		UserID:    note.Owner,
		CreatedAt: timex.Time(note.CreatedAt),
		UpdatedAt: timex.Time(note.UpdatedAt),
	}
}

func (r *noteRepository) toDomainList(ms []*model.Note) []*domain.Note {
	list := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list
}

// validID ids that are not UUIDs can never match a row
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Create 创建笔记，ID 为空时生成 UUID
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var m model.Note
	if err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// List 获取全部笔记
func (r *noteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	var ms []*model.Note
	err := r.dao.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// Update 读取、修改并写回，整个过程在一个事务中完成
func (r *noteRepository) Update(ctx context.Context, id string, mutate func(*domain.Note) error) (*domain.Note, error) {
	if !validID(id) {
		return nil, gorm.ErrRecordNotFound
	}

	var out *domain.Note
	err := r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Note
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}

		note := r.toDomain(&m)
		if err := mutate(note); err != nil {
			return err
		}
		note.ID = m.ID
		note.CreatedAt = time.Time(m.CreatedAt)

		updated := r.toModel(note)
		res := tx.Model(&model.Note{}).
			Where("id = ?", id).
			Select("title", "content", "tags", "event_date", "event_time", "user_id", "updated_at").
			Updates(updated)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		out = r.toDomain(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 物理删除笔记
func (r *noteRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return gorm.ErrRecordNotFound
	}
	return r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Search 标题或内容包含 query 的笔记；query 为空时直接返回空结果
func (r *noteRepository) Search(ctx context.Context, query string) ([]*domain.Note, error) {
	if query == "" {
		return []*domain.Note{}, nil
	}

	pattern := "%" + likeEscaper.Replace(query) + "%"
	var ms []*model.Note
	err := r.dao.db.WithContext(ctx).
		Where("title LIKE ? ESCAPE '"+likeEscape+"' OR content LIKE ? ESCAPE '"+likeEscape+"'", pattern, pattern).
		Order("updated_at DESC").
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// Count 笔记总数
func (r *noteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.dao.db.WithContext(ctx).Model(&model.Note{}).Count(&n).Error
	return n, err
}

var _ domain.NoteRepository = (*noteRepository)(nil)
