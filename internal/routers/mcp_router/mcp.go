// Package mcp_router 通过 MCP (stdio) 暴露笔记工具
package mcp_router

import (
	"context"
	"errors"
	"strings"

	"github.com/haierkeys/fast-note-ai-service/internal/app"
	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/util"
	"github.com/haierkeys/fast-note-ai-service/pkg/validator"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin/binding"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Tools MCP 工具处理器
type Tools struct {
	App *app.App
}

// NewServer registers the note tools on a new MCP server
// NewServer 创建 MCP 服务并注册笔记工具
func NewServer(a *app.App) *server.MCPServer {
	t := &Tools{App: a}

	// create_note 复用 HTTP 接口的校验标签
	if _, err := validator.InitGinValidator(); err != nil {
		a.Logger().Warn("mcp validator init failed", zap.Error(err))
	}

	s := server.NewMCPServer(
		app.Name,
		app.Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note with a title and content."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title, at most 200 characters.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body.")),
		mcp.WithString("tags", mcp.Description("Comma separated tags.")),
		mcp.WithString("event_date", mcp.Description("Event date in YYYY-MM-DD format.")),
		mcp.WithString("event_time", mcp.Description("Event time in 24-hour HH:MM format.")),
	), t.CreateNote)

	s.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Read a single note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id.")),
	), t.GetNote)

	s.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes whose title or content contains the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Substring to look for.")),
	), t.SearchNotes)

	s.AddTool(mcp.NewTool("ingest_note",
		mcp.WithDescription("Turn free-form text into a structured note using the language model and store it."),
		mcp.WithString("user_input", mcp.Required(), mcp.Description("Free-form text describing the note.")),
		mcp.WithString("output_language", mcp.Description("Language the generated note is written in.")),
	), t.IngestNote)

	return s
}

// ServeStdio 在标准输入输出上运行 MCP 服务，直到输入关闭
func ServeStdio(a *app.App) error {
	return server.ServeStdio(NewServer(a))
}

// CreateNote create_note 工具
func (t *Tools) CreateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := &dto.NoteCreateRequest{
		Title:     req.GetString("title", ""),
		Content:   req.GetString("content", ""),
		Tags:      util.SplitTags(req.GetString("tags", "")),
		EventDate: optional(req.GetString("event_date", "")),
		EventTime: optional(req.GetString("event_time", "")),
	}
	if err := binding.Validator.ValidateStruct(params); err != nil {
		return mcp.NewToolResultError(code.ErrorInvalidParams.WithDetails(err.Error()).Error()), nil
	}

	note, err := t.App.NoteService.Create(ctx, params)
	if err != nil {
		return t.toolError("create_note", err), nil
	}
	return jsonResult(note)
}

// GetNote get_note 工具
func (t *Tools) GetNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note, err := t.App.NoteService.Get(ctx, req.GetString("id", ""))
	if err != nil {
		return t.toolError("get_note", err), nil
	}
	return jsonResult(note)
}

// SearchNotes search_notes 工具
func (t *Tools) SearchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.App.NoteService.Search(ctx, req.GetString("query", ""))
	if err != nil {
		return t.toolError("search_notes", err), nil
	}
	return jsonResult(list)
}

// IngestNote ingest_note 工具
func (t *Tools) IngestNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.App.LLMEnabled() {
		return mcp.NewToolResultError(code.ErrorCompletionNotConfig.Error()), nil
	}
	params := &dto.NaturalLanguageRequest{
		UserInput:      req.GetString("user_input", ""),
		OutputLanguage: req.GetString("output_language", ""),
	}
	if strings.TrimSpace(params.UserInput) == "" {
		return mcp.NewToolResultError(code.ErrorUserInputEmpty.Error()), nil
	}

	res, err := t.App.IngestService.Ingest(ctx, params)
	if err != nil {
		return t.toolError("ingest_note", err), nil
	}
	return jsonResult(res)
}

// toolError 业务错误作为工具结果返回，不中断 MCP 会话
func (t *Tools) toolError(tool string, err error) *mcp.CallToolResult {
	var c *code.Code
	if errors.As(err, &c) {
		msg := c.Msg()
		if c.HaveDetails() {
			msg += ": " + strings.Join(c.Details(), "; ")
		}
		return mcp.NewToolResultError(msg)
	}
	t.App.Logger().Error("mcp tool failed", zap.String("tool", tool), zap.Error(err))
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
