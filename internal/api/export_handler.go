package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumaker/internal/api/middleware"
	"resumaker/internal/storage"
	"resumaker/internal/store"
	"resumaker/internal/tasks"
)

const downloadLinkTTL = 10 * time.Minute

// ExportHandler 负责把简历导出任务投递到队列，以及产物下载。
// 只有 PDF 真正落地；DOCX/PNG 是明确未实现的格式。
type ExportHandler struct {
	store       *store.Store
	asynqClient *asynq.Client
	redis       redis.UniversalClient
	storage     *storage.Client
	logger      *slog.Logger
}

func NewExportHandler(
	st *store.Store,
	asynqClient *asynq.Client,
	redisClient redis.UniversalClient,
	storageClient *storage.Client,
	logger *slog.Logger,
) *ExportHandler {
	return &ExportHandler{
		store:       st,
		asynqClient: asynqClient,
		redis:       redisClient,
		storage:     storageClient,
		logger:      logger,
	}
}

type exportRequest struct {
	Format string `json:"format" binding:"required"`
}

// POST /v1/resumes/:id/export
// 投递异步导出任务，完成后经 WebSocket 通知。
func (h *ExportHandler) ExportResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	switch strings.ToLower(req.Format) {
	case "pdf":
	case "docx", "png":
		Error(c, http.StatusNotImplemented, "format not implemented: "+req.Format)
		return
	default:
		BadRequest(c, "unknown export format")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	resumes, err := h.store.LoadResumes(ctx)
	if err != nil {
		logger.Error("load resumes failed", slog.Any("error", err))
		Internal(c, "failed to load resumes")
		return
	}

	resumeID := c.Param("id")
	found := false
	for i := range resumes {
		if resumes[i].ID == resumeID {
			found = true
			break
		}
	}
	if !found {
		NotFound(c, "resume not found")
		return
	}

	task, err := tasks.NewPDFExportTask(resumeID, userID, middleware.GetCorrelationID(c))
	if err != nil {
		logger.Error("build export task failed", slog.Any("error", err))
		Internal(c, "failed to build export task")
		return
	}

	info, err := h.asynqClient.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
	if err != nil {
		logger.Error("enqueue export task failed", slog.Any("error", err))
		Internal(c, "failed to enqueue export task")
		return
	}

	logger.Info("export task enqueued",
		slog.String("resume_id", resumeID),
		slog.String("task_id", info.ID),
	)
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task_id": info.ID})
}

// GET /v1/resumes/:id/download
// 查询最近一次导出产物并返回限时下载链接；尚未导出返回 409。
func (h *ExportHandler) GetDownloadLink(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)
	resumeID := c.Param("id")

	objectKey, err := h.redis.Get(ctx, tasks.PDFExportRedisKey(resumeID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			Conflict(c, "pdf not ready")
			return
		}
		logger.Error("lookup export record failed", slog.Any("error", err))
		Internal(c, "failed to look up export")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(ctx, objectKey, downloadLinkTTL)
	if err != nil {
		if storage.IsNoSuchKey(err) {
			Conflict(c, "pdf not ready")
			return
		}
		logger.Error("generate presigned url failed", slog.Any("error", err))
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL, "expires_in": int(downloadLinkTTL.Seconds())})
}
