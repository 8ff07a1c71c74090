// Package extract turns free-form user text into structured note fields
// Package extract 将用户自由文本转换为结构化笔记字段：构建提示词、解析模型输出
package extract

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultOutputLanguage 默认输出语言
	DefaultOutputLanguage = "English"
	// DefaultTranslateLanguage 默认翻译目标语言
	DefaultTranslateLanguage = "Chinese"

	// TimestampLayout ISO-8601 精确到分钟
	TimestampLayout = "2006-01-02T15:04"
)

const systemPromptTemplate = `
Current datetime (ISO 8601): {current_datetime}

Extract the user's input into the following structured fields:
1. Title: A concise title of the note, fewer than 5 words.
2. Notes: A clear paragraph summarizing the user's intent.
3. Tags: An array of exactly 3 keywords categorizing the note.
4. EventDate: If a specific date is implied, output as ISO date YYYY-MM-DD; else null.
5. EventTime: If a specific time is implied, output as 24-hour time HH:MM; else null.

Rules:
- For relative times like "tmr"/"tomorrow", convert to absolute using Current datetime. If ambiguous, set null.
- If only time is present without a date, set EventTime and leave EventDate null.
- Output ONLY valid JSON on a single line with no extra text, newlines, or code fences.
- Output Title and Notes in the language: {lang}.

Example:
Input: "Badminton tmr 5pm @polyu".
Output: {"Title": "Badminton at PolyU", "Notes": "Remember to play badminton at 5pm tomorrow at PolyU.", "Tags": ["badminton", "sports", "tomorrow"], "EventDate": "2025-10-23", "EventTime": "17:00"}
`

const translatePromptTemplate = "Translate the following text to {lang}: \n\n{text}"

// BuildSystemPrompt renders the extraction instruction; it is a pure function of its inputs
// BuildSystemPrompt 渲染抽取指令，输出只取决于参数
func BuildSystemPrompt(targetLanguage, currentTimestamp string) string {
	r := strings.NewReplacer(
		"{current_datetime}", currentTimestamp,
		"{lang}", targetLanguage,
	)
	return r.Replace(systemPromptTemplate)
}

// BuildTranslatePrompt 渲染翻译指令
func BuildTranslatePrompt(targetLanguage, text string) string {
	r := strings.NewReplacer(
		"{lang}", targetLanguage,
		"{text}", text,
	)
	return r.Replace(translatePromptTemplate)
}

// FormatTimestamp 将时间格式化为分钟精度的 ISO-8601 字符串
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// NormalizeLanguage trims a language name and title-cases it, returning def when blank
// NormalizeLanguage 去除空白并转为首字母大写，空值返回 def
func NormalizeLanguage(name, def string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return def
	}
	return cases.Title(language.English).String(name)
}
