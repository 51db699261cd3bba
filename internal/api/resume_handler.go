package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumaker/internal/api/middleware"
	"resumaker/internal/catalog"
	"resumaker/internal/resume"
	"resumaker/internal/store"
)

// ResumeHandler 负责简历集合的读取与创建。
// 集合上限之内才允许创建；没有删除接口，上限是硬性的。
type ResumeHandler struct {
	store *store.Store
}

func NewResumeHandler(st *store.Store) *ResumeHandler {
	return &ResumeHandler{store: st}
}

type createResumeRequest struct {
	TemplateID int `json:"templateId" binding:"required"`
}

type resumeListResponse struct {
	Items []resume.UserResume `json:"items"`
	Count int                 `json:"count"`
	Limit int                 `json:"limit"`
}

// GET /v1/resumes
// 按存储顺序返回完整集合。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	resumes, err := h.store.LoadResumes(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("load resumes failed", slog.Any("error", err))
		Internal(c, "failed to load resumes")
		return
	}

	c.JSON(http.StatusOK, resumeListResponse{
		Items: resumes,
		Count: len(resumes),
		Limit: resume.MaxResumesPerUser,
	})
}

// POST /v1/resumes
// 以所选模板创建一份默认内容的简历。达到上限返回 403 且集合不变。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if _, ok := catalog.ByID(req.TemplateID); !ok {
		BadRequest(c, "unknown template id")
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

	created, err := resume.New(req.TemplateID, resumes)
	if err != nil {
		if errors.Is(err, resume.ErrLimitReached) {
			logger.Info("resume limit reached", slog.Int("count", len(resumes)))
			Forbidden(c, "resume limit reached")
			return
		}
		logger.Error("create resume failed", slog.Any("error", err))
		Internal(c, "failed to create resume")
		return
	}

	resumes = append(resumes, created)
	if err := h.store.SaveResumes(ctx, resumes); err != nil {
		logger.Error("persist resumes failed", slog.Any("error", err))
		Internal(c, "failed to persist resume")
		return
	}

	logger.Info("resume created",
		slog.String("resume_id", created.ID),
		slog.Int("template_id", created.TemplateID),
	)
	c.JSON(http.StatusCreated, created)
}

// GET /v1/resumes/:id
func (h *ResumeHandler) GetResume(c *gin.Context) {
	resumes, err := h.store.LoadResumes(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("load resumes failed", slog.Any("error", err))
		Internal(c, "failed to load resumes")
		return
	}

	id := c.Param("id")
	for i := range resumes {
		if resumes[i].ID == id {
			c.JSON(http.StatusOK, resumes[i])
			return
		}
	}
	NotFound(c, "resume not found")
}
