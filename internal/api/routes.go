package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumaker/internal/api/middleware"
	"resumaker/internal/auth"
	"resumaker/internal/config"
	"resumaker/internal/editor"
	"resumaker/internal/storage"
	"resumaker/internal/store"
)

// RegisterRoutes 注册 API 路由。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	st *store.Store,
	session *editor.Session,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	authHandler := NewAuthHandler(st, authService, logger)
	templateHandler := NewTemplateHandler()
	resumeHandler := NewResumeHandler(st)
	editorHandler := NewEditorHandler(
		session,
		st,
		redisClient,
		logger,
		cfg.Limits.AICallsPerHour,
		cfg.Upload.MaxBytes,
		cfg.Upload.ClamdAddr,
	)
	exportHandler := NewExportHandler(st, asynqClient, redisClient, storageClient, logger)
	shareHandler := NewShareHandler(st, cfg.Frontend.BaseURL)
	wsHandler := NewWsHandler(redisClient, authService, logger, nil)
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}

		templateGroup := v1.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
		}

		resumeGroup := v1.Group("/resumes")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.POST("/:id/export", exportHandler.ExportResume)
			resumeGroup.GET("/:id/download", exportHandler.GetDownloadLink)
			resumeGroup.GET("/:id/share", shareHandler.GetShareLinks)
		}

		editorGroup := v1.Group("/editor")
		editorGroup.Use(authMiddleware)
		{
			editorGroup.POST("/open", editorHandler.Open)
			editorGroup.GET("", editorHandler.State)
			editorGroup.PATCH("/content", editorHandler.SetContentField)
			editorGroup.PATCH("/colors", editorHandler.SetColorField)
			editorGroup.POST("/photo", editorHandler.UploadPhoto)
			editorGroup.POST("/ai/image", editorHandler.RequestImageEdit)
			editorGroup.POST("/ai/summary", editorHandler.RequestSummary)
			editorGroup.POST("/save", editorHandler.Save)
			editorGroup.POST("/close", editorHandler.Close)
		}
	}
}
