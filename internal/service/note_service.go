package service

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/domain"
	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	"github.com/haierkeys/fast-note-ai-service/internal/extract"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/llm"
	"github.com/haierkeys/fast-note-ai-service/pkg/logger"
	"github.com/haierkeys/fast-note-ai-service/pkg/workerpool"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Create 创建笔记
	Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Get 获取单条笔记
	Get(ctx context.Context, id string) (*dto.NoteDTO, error)

	// List 获取全部笔记，按更新时间倒序
	List(ctx context.Context) ([]*dto.NoteDTO, error)

	// Update 局部更新笔记
	Update(ctx context.Context, id string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// Delete 删除笔记
	Delete(ctx context.Context, id string) error

	// Search 按标题或内容搜索，空关键字返回空列表
	Search(ctx context.Context, query string) ([]*dto.NoteDTO, error)

	// Translate 翻译笔记标题与内容，不写回数据库
	Translate(ctx context.Context, id string, params *dto.NoteTranslateRequest) (*dto.NoteTranslateResponse, error)

	// Count 笔记总数
	Count(ctx context.Context) (int64, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo  domain.NoteRepository
	completer *completer
	config    *ServiceConfig
	logger    *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, client llm.ChatCompleter, pool *workerpool.Pool, l *zap.Logger, config *ServiceConfig) NoteService {
	if l == nil {
		l = zap.NewNop()
	}
	cfg := config.withDefaults()
	return &noteService{
		noteRepo:  noteRepo,
		completer: newCompleter(client, pool, cfg.LLM, l),
		config:    cfg,
		logger:    l,
	}
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, code.ErrorNoteTitleEmpty
	}
	if strings.TrimSpace(params.Content) == "" {
		return nil, code.ErrorNoteContentEmpty
	}

	now := s.config.now().Truncate(time.Millisecond)
	note := &domain.Note{
		Title:     params.Title,
		Content:   params.Content,
		Tags:      params.Tags,
		EventDate: blankToNil(params.EventDate),
		EventTime: blankToNil(params.EventTime),
		Owner:     blankToNil(params.Owner),
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, dbError(err)
	}
	s.logger.Info("note created", zap.String(logger.FieldNoteID, created.ID))
	return toNoteDTO(created), nil
}

// Get 获取单条笔记
func (s *noteService) Get(ctx context.Context, id string) (*dto.NoteDTO, error) {
	n, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	return toNoteDTO(n), nil
}

// List 获取全部笔记
func (s *noteService) List(ctx context.Context) ([]*dto.NoteDTO, error) {
	list, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return toNoteDTOList(list), nil
}

// Update 局部更新笔记，updated_at 严格递增
func (s *noteService) Update(ctx context.Context, id string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	patch := &domain.NotePatch{
		Title:     params.Title,
		Content:   params.Content,
		Tags:      params.Tags,
		EventDate: params.EventDate,
		EventTime: params.EventTime,
		Owner:     params.Owner,
	}
	if patch.IsEmpty() {
		return nil, code.ErrorNoteUpdateEmpty
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, code.ErrorNoteTitleEmpty
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, code.ErrorNoteContentEmpty
	}

	updated, err := s.noteRepo.Update(ctx, id, func(n *domain.Note) error {
		patch.Apply(n)
		n.Touch(s.config.now())
		return nil
	})
	if err != nil {
		return nil, dbError(err)
	}
	s.logger.Info("note updated", zap.String(logger.FieldNoteID, updated.ID))
	return toNoteDTO(updated), nil
}

// Delete 删除笔记
func (s *noteService) Delete(ctx context.Context, id string) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	s.logger.Info("note deleted", zap.String(logger.FieldNoteID, id))
	return nil
}

// Search 搜索笔记
func (s *noteService) Search(ctx context.Context, query string) ([]*dto.NoteDTO, error) {
	if query == "" {
		return []*dto.NoteDTO{}, nil
	}
	list, err := s.noteRepo.Search(ctx, query)
	if err != nil {
		return nil, dbError(err)
	}
	s.logger.Debug("note search",
		zap.String(logger.FieldQuery, query),
		zap.Int(logger.FieldCount, len(list)))
	return toNoteDTOList(list), nil
}

// Translate issues the title and content completions concurrently; either failing fails the call
// Translate 并发翻译标题与内容，任一失败则整体失败
func (s *noteService) Translate(ctx context.Context, id string, params *dto.NoteTranslateRequest) (*dto.NoteTranslateResponse, error) {
	n, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}

	target := s.config.LLM.DefaultTranslateLanguage
	if params != nil {
		target = extract.NormalizeLanguage(params.TargetLanguage, target)
	}

	res := &dto.NoteTranslateResponse{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.completer.complete(gctx, "Translate.title", []llm.Message{
			{Role: llm.RoleUser, Content: extract.BuildTranslatePrompt(target, n.Title)},
		})
		res.TranslatedTitle = out
		return err
	})
	g.Go(func() error {
		out, err := s.completer.complete(gctx, "Translate.content", []llm.Message{
			{Role: llm.RoleUser, Content: extract.BuildTranslatePrompt(target, n.Content)},
		})
		res.TranslatedContent = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("note translated",
		zap.String(logger.FieldNoteID, n.ID),
		zap.String(logger.FieldLanguage, target))
	return res, nil
}

// Count 笔记总数
func (s *noteService) Count(ctx context.Context) (int64, error) {
	n, err := s.noteRepo.Count(ctx)
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}
