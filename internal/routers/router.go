package routers

import (
	"time"

	"github.com/haierkeys/fast-note-ai-service/internal/app"
	"github.com/haierkeys/fast-note-ai-service/internal/middleware"
	"github.com/haierkeys/fast-note-ai-service/internal/routers/api_router"
	"github.com/haierkeys/fast-note-ai-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// 调用模型的接口单独限流
const (
	routeProcessNaturalLanguage = "/api/notes/process-natural-language"
	routeTranslate              = "/api/notes/translate/:id"
)

func newMethodLimiter() limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          routeProcessNaturalLanguage,
			FillInterval: time.Second,
			Capacity:     10,
			Quantum:      10,
		},
		limiter.BucketRule{
			Key:          routeTranslate,
			FillInterval: time.Second,
			Capacity:     10,
			Quantum:      10,
		},
	)
}

// NewRouter 创建 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()

	r := gin.New()
	r.Use(middleware.Cors())

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		api.Use(middleware.RateLimiter(newMethodLimiter()))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.LangWithTranslator(uni))

		healthHandler := api_router.NewHealthHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		ingestHandler := api_router.NewIngestHandler(appContainer)

		api.GET("/healthcheck", healthHandler.Check)

		api.GET("/notes", noteHandler.List)
		api.POST("/notes", noteHandler.Create)
		api.GET("/notes/search", noteHandler.Search)
		api.GET("/notes/:id", noteHandler.Get)
		api.PUT("/notes/:id", noteHandler.Update)
		api.DELETE("/notes/:id", noteHandler.Delete)
		api.POST("/notes/translate/:id", noteHandler.Translate)
		api.POST("/notes/process-natural-language", ingestHandler.ProcessNaturalLanguage)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
