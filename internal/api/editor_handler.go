package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumaker/internal/ai"
	"resumaker/internal/api/middleware"
	"resumaker/internal/editor"
	"resumaker/internal/store"
)

const aiRateLimitWindow = time.Hour

// EditorHandler 把编辑会话暴露为 HTTP 接口。
type EditorHandler struct {
	session   *editor.Session
	store     *store.Store
	redis     redis.UniversalClient
	logger    *slog.Logger
	aiPerHour int
	uploadMax int64
	clamdAddr string
}

// NewEditorHandler 构造编辑处理器。
func NewEditorHandler(
	session *editor.Session,
	st *store.Store,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	aiPerHour int,
	uploadMax int64,
	clamdAddr string,
) *EditorHandler {
	return &EditorHandler{
		session:   session,
		store:     st,
		redis:     redisClient,
		logger:    logger,
		aiPerHour: aiPerHour,
		uploadMax: uploadMax,
		clamdAddr: clamdAddr,
	}
}

type openRequest struct {
	ResumeID string `json:"resumeId" binding:"required"`
}

// POST /v1/editor/open
// 打开一份简历进入编辑态。已有会话时返回 409，先保存或关闭。
func (h *EditorHandler) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
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

	for i := range resumes {
		if resumes[i].ID != req.ResumeID {
			continue
		}
		if err := h.session.Open(resumes[i]); err != nil {
			if errors.Is(err, editor.ErrAlreadyEditing) {
				Conflict(c, "another resume is already open")
				return
			}
			logger.Error("open session failed", slog.Any("error", err))
			Internal(c, "failed to open editor")
			return
		}
		logger.Info("editor opened", slog.String("resume_id", req.ResumeID))
		c.JSON(http.StatusOK, h.session.Snapshot())
		return
	}
	NotFound(c, "resume not found")
}

// GET /v1/editor
// 返回工作副本快照（含 AI 忙碌标志），供前端轮询。
func (h *EditorHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

type setFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// PATCH /v1/editor/content
func (h *EditorHandler) SetContentField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.session.SetContentField(req.Field, req.Value); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

type setColorRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// PATCH /v1/editor/colors
func (h *EditorHandler) SetColorField(c *gin.Context) {
	var req setColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.session.SetColorField(req.Field, req.Value); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// POST /v1/editor/photo
// 上传头像：限制大小、过 ClamAV 扫描，然后以 data URI 写入工作副本。
func (h *EditorHandler) UploadPhoto(c *gin.Context) {
	if !h.session.Editing() {
		Conflict(c, "no resume open for editing")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size > h.uploadMax {
		BadRequest(c, "file too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		BadRequest(c, "only image uploads are accepted")
		return
	}

	logger := middleware.LoggerFromContext(c)

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}

	if h.clamdAddr != "" {
		clamdClient := clamd.NewClamd(h.clamdAddr)
		abortChan := make(chan bool)
		scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
		fileReader.Close()
		if err != nil {
			logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		infected := false
		for result := range scanChan {
			if result.Status != clamd.RES_OK {
				infected = true
			}
		}
		close(abortChan)
		if infected {
			BadRequest(c, "malicious file detected")
			return
		}

		fileReader, err = file.Open()
		if err != nil {
			Internal(c, "failed to reopen file")
			return
		}
	}
	defer fileReader.Close()

	data, err := io.ReadAll(io.LimitReader(fileReader, h.uploadMax+1))
	if err != nil {
		Internal(c, "failed to read file")
		return
	}
	if int64(len(data)) > h.uploadMax {
		BadRequest(c, "file too large")
		return
	}

	dataURI := ai.EncodeDataURI(data, contentType)
	if err := h.session.SetContentField("profileImage", dataURI); err != nil {
		h.respondSessionError(c, err)
		return
	}

	logger.Info("profile photo updated", slog.Int("size_bytes", len(data)))
	c.JSON(http.StatusOK, h.session.Snapshot())
}

type aiImageRequest struct {
	Instruction string `json:"instruction" binding:"required"`
}

// POST /v1/editor/ai/image
// 发起异步头像编辑：立即 202；在途时 409；超出频次 429。
func (h *EditorHandler) RequestImageEdit(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req aiImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if !h.allowAICall(c, userID) {
		return
	}

	if err := h.session.RequestImageEdit(c.Request.Context(), req.Instruction); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
}

// POST /v1/editor/ai/summary
func (h *EditorHandler) RequestSummary(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if !h.allowAICall(c, userID) {
		return
	}

	if err := h.session.RequestSummary(c.Request.Context()); err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
}

// POST /v1/editor/save
func (h *EditorHandler) Save(c *gin.Context) {
	if err := h.session.Save(c.Request.Context()); err != nil {
		h.respondSessionError(c, err)
		return
	}
	middleware.LoggerFromContext(c).Info("editor session saved")
	c.Status(http.StatusNoContent)
}

// POST /v1/editor/close
// 丢弃工作副本。空闲态调用也返回成功（幂等）。
func (h *EditorHandler) Close(c *gin.Context) {
	h.session.Close()
	c.Status(http.StatusNoContent)
}

// allowAICall 做按用户的小时级频控；超限时已写响应并返回 false。
func (h *EditorHandler) allowAICall(c *gin.Context, userID string) bool {
	if h.redis == nil || h.aiPerHour <= 0 {
		return true
	}

	key := fmt.Sprintf("ratelimit:ai:%s", userID)
	count, err := incrWithTTL(c.Request.Context(), h.redis, key, aiRateLimitWindow)
	if err != nil {
		// 频控故障时放行，不把 Redis 变成 AI 功能的单点。
		middleware.LoggerFromContext(c).Warn("ai rate limit check failed", slog.Any("error", err))
		return true
	}
	if count > int64(h.aiPerHour) {
		Error(c, http.StatusTooManyRequests, "ai request limit reached, try again later")
		return false
	}
	return true
}

func (h *EditorHandler) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, editor.ErrNotEditing):
		Conflict(c, "no resume open for editing")
	case errors.Is(err, editor.ErrAlreadyEditing):
		Conflict(c, "another resume is already open")
	case errors.Is(err, editor.ErrAIBusy):
		Conflict(c, "an ai request is already pending")
	case errors.Is(err, editor.ErrNoProfileImage):
		BadRequest(c, "working copy has no profile image")
	case errors.Is(err, editor.ErrUnknownField):
		BadRequest(c, err.Error())
	default:
		middleware.LoggerFromContext(c).Error("editor operation failed", slog.Any("error", err))
		Internal(c, "editor operation failed")
	}
}
