// Package domain 定义领域模型和接口
package domain

import "context"

// NoteRepository 笔记仓储接口
// 记录不存在时返回 gorm.ErrRecordNotFound
type NoteRepository interface {
	// Create 创建笔记
	Create(ctx context.Context, note *Note) (*Note, error)

	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id string) (*Note, error)

	// List 获取全部笔记，按 updated_at 倒序
	List(ctx context.Context) ([]*Note, error)

	// Update 在同一事务内读取笔记、执行 mutate 并写回
	Update(ctx context.Context, id string, mutate func(*Note) error) (*Note, error)

	// Delete 物理删除笔记
	Delete(ctx context.Context, id string) error

	// Search 标题或内容包含 query 的笔记，按 updated_at 倒序
	Search(ctx context.Context, query string) ([]*Note, error)

	// Count 笔记总数
	Count(ctx context.Context) (int64, error)
}
