package util

import (
	"strings"

	"github.com/gookit/goutil/strutil"
)

// TagSeparator 标签在存储列中的分隔符
const TagSeparator = ","

// JoinTags joins tags into the single stored column, dropping blank entries
// JoinTags 将标签合并为存储用的单列字符串，忽略空白标签
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return strings.Join(out, TagSeparator)
}

// SplitTags splits the stored column back into an ordered tag list, never nil
// SplitTags 将存储列拆分为有序标签列表，结果不为 nil
func SplitTags(s string) []string {
	tags := strutil.Split(s, TagSeparator)
	if tags == nil {
		return []string{}
	}
	return tags
}
