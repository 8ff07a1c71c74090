package service

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/domain"
	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	"github.com/haierkeys/fast-note-ai-service/internal/extract"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/convert"
	"github.com/haierkeys/fast-note-ai-service/pkg/llm"
	"github.com/haierkeys/fast-note-ai-service/pkg/logger"
	"github.com/haierkeys/fast-note-ai-service/pkg/validator"
	"github.com/haierkeys/fast-note-ai-service/pkg/workerpool"

	"go.uber.org/zap"
)

// IngestService 自然语言生成笔记服务
type IngestService interface {
	// Ingest builds the prompt, calls the model once, normalizes the reply and stores a note
	// Ingest 构建提示词、调用模型、解析结果并保存笔记；模型调用失败时不写入任何数据
	Ingest(ctx context.Context, params *dto.NaturalLanguageRequest) (*dto.IngestResultDTO, error)
}

type ingestService struct {
	noteRepo  domain.NoteRepository
	completer *completer
	config    *ServiceConfig
	logger    *zap.Logger
}

// NewIngestService 创建 IngestService 实例
func NewIngestService(noteRepo domain.NoteRepository, client llm.ChatCompleter, pool *workerpool.Pool, l *zap.Logger, config *ServiceConfig) IngestService {
	if l == nil {
		l = zap.NewNop()
	}
	cfg := config.withDefaults()
	return &ingestService{
		noteRepo:  noteRepo,
		completer: newCompleter(client, pool, cfg.LLM, l),
		config:    cfg,
		logger:    l,
	}
}

// Ingest 自然语言生成笔记
func (s *ingestService) Ingest(ctx context.Context, params *dto.NaturalLanguageRequest) (*dto.IngestResultDTO, error) {
	input := params.UserInput
	if strings.TrimSpace(input) == "" {
		return nil, code.ErrorUserInputEmpty
	}

	language := extract.NormalizeLanguage(params.OutputLanguage, s.config.LLM.DefaultOutputLanguage)
	now := s.config.now()

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: extract.BuildSystemPrompt(language, extract.FormatTimestamp(now))},
		{Role: llm.RoleUser, Content: input},
	}

	raw, err := s.completer.complete(ctx, "Ingest", messages)
	if err != nil {
		ingestTotal.WithLabelValues(outcomeCompletionError).Inc()
		return nil, err
	}

	fields, isFallback := extract.Normalize(raw)

	note := s.buildNote(fields, input, now)
	created, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		ingestTotal.WithLabelValues(outcomePersistenceError).Inc()
		s.logger.Error("ingest persist failed", zap.Error(err))
		return nil, dbError(err)
	}

	processed := &dto.ProcessedDataDTO{}
	if err := convert.StructAssign(&fields, processed); err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	processed.IsFallback = isFallback

	outcome := outcomeSuccess
	if isFallback {
		outcome = outcomeFallback
	}
	ingestTotal.WithLabelValues(outcome).Inc()

	s.logger.Info("note ingested",
		zap.String(logger.FieldNoteID, created.ID),
		zap.String(logger.FieldLanguage, language),
		zap.Bool(logger.FieldFallback, isFallback))

	return &dto.IngestResultDTO{
		Note:          toNoteDTO(created),
		ProcessedData: processed,
	}, nil
}

// buildNote maps extracted fields onto a storable note, keeping title and content non-empty
// buildNote 将结构化字段转为可保存的笔记，保证标题与内容非空；不合法的日期时间不入库
func (s *ingestService) buildNote(fields extract.Extraction, input string, now time.Time) *domain.Note {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		title = extract.DefaultTitle
	}
	content := fields.Notes
	if strings.TrimSpace(content) == "" {
		content = input
	}

	var eventDate, eventTime *string
	if fields.EventDate != nil && validator.IsISODate(*fields.EventDate) {
		eventDate = fields.EventDate
	}
	if fields.EventTime != nil && validator.IsHHMM(*fields.EventTime) {
		eventTime = fields.EventTime
	}

	ts := now.Truncate(time.Millisecond)
	return &domain.Note{
		Title:     truncateRunes(title, maxTitleRunes),
		Content:   content,
		Tags:      fields.Tags,
		EventDate: eventDate,
		EventTime: eventTime,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}
