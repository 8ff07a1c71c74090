package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/haierkeys/fast-note-ai-service/internal/domain"
	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/timex"

	"gorm.io/gorm"
)

// maxTitleRunes 与 notes.title 列长度一致
const maxTitleRunes = 200

// dbError 将仓储错误转换为业务错误码
func dbError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return code.ErrorNoteNotFound
	}
	var c *code.Code
	if errors.As(err, &c) {
		return c
	}
	return code.ErrorDBQuery.WithDetails(err.Error())
}

// toNoteDTO 领域模型转 DTO
func toNoteDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.NoteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		EventDate: n.EventDate,
		EventTime: n.EventTime,
		Owner:     n.Owner,
		CreatedAt: timex.Time(n.CreatedAt),
		UpdatedAt: timex.Time(n.UpdatedAt),
	}
}

func toNoteDTOList(list []*domain.Note) []*dto.NoteDTO {
	out := make([]*dto.NoteDTO, 0, len(list))
	for _, n := range list {
		out = append(out, toNoteDTO(n))
	}
	return out
}

// blankToNil 空白字符串视为未提供
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// truncateRunes 按字符截断
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
