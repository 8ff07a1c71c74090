package model

import (
	"github.com/haierkeys/fast-note-ai-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const TableNameNote = "notes"

// Note mapped from table <notes>
type Note struct {
	ID        string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	Title     string     `gorm:"column:title;type:varchar(200);not null" json:"title" form:"title"`
	Content   string     `gorm:"column:content;type:text;not null" json:"content" form:"content"`
	Tags      string     `gorm:"column:tags;type:text" json:"tags" form:"tags"`
	EventDate *string    `gorm:"column:event_date;type:varchar(10)" json:"eventDate" form:"eventDate"`
	EventTime *string    `gorm:"column:event_time;type:varchar(5)" json:"eventTime" form:"eventTime"`
	UserID    *string    `gorm:"column:user_id;type:varchar(64);index:idx_notes_user_id" json:"userId" form:"userId"`
	CreatedAt timex.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;not null;index:idx_notes_updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName 表名，带上 database.table-prefix 配置的前缀
func (*Note) TableName(namer schema.Namer) string {
	return namer.TableName(TableNameNote)
}

// NoteTable 返回当前连接下 notes 表的实际名称
func NoteTable(db *gorm.DB) string {
	return db.NamingStrategy.TableName(TableNameNote)
}
