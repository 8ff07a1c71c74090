// Package domain 定义领域模型和接口
package domain

import (
	"strings"
	"time"
)

// Note 笔记领域模型
type Note struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	EventDate *string
	EventTime *string
	// Owner 用户标识，仅作查找键，不做外键约束
	Owner     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotePatch 笔记局部更新，nil 字段保持原值
type NotePatch struct {
	Title     *string
	Content   *string
	Tags      *[]string
	EventDate *string
	EventTime *string
	Owner     *string
}

// IsEmpty 判断是否没有任何字段需要更新
func (p *NotePatch) IsEmpty() bool {
	return p == nil || (p.Title == nil && p.Content == nil && p.Tags == nil &&
		p.EventDate == nil && p.EventTime == nil && p.Owner == nil)
}

// Apply 将补丁合并到笔记上，不修改时间戳
func (p *NotePatch) Apply(n *Note) {
	if p == nil || n == nil {
		return
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.EventDate != nil {
		n.EventDate = optional(*p.EventDate)
	}
	if p.EventTime != nil {
		n.EventTime = optional(*p.EventTime)
	}
	if p.Owner != nil {
		n.Owner = optional(*p.Owner)
	}
}

// Touch advances UpdatedAt to now, or one millisecond past the previous value when the clock has not moved
// Touch 刷新 UpdatedAt，保证严格大于原值
func (n *Note) Touch(now time.Time) {
	now = now.Truncate(time.Millisecond)
	if !now.After(n.UpdatedAt) {
		now = n.UpdatedAt.Add(time.Millisecond)
	}
	n.UpdatedAt = now
}

// optional 空白字符串视为清空
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
