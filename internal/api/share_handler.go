package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"resumaker/internal/api/middleware"
	"resumaker/internal/store"
)

// ShareHandler 生成社交平台的分享意图链接。
// 分享内容只含公开落地页地址与文案，不携带简历数据本身。
type ShareHandler struct {
	store           *store.Store
	frontendBaseURL string
}

func NewShareHandler(st *store.Store, frontendBaseURL string) *ShareHandler {
	return &ShareHandler{
		store:           st,
		frontendBaseURL: strings.TrimRight(strings.TrimSpace(frontendBaseURL), "/"),
	}
}

// GET /v1/resumes/:id/share
func (h *ShareHandler) GetShareLinks(c *gin.Context) {
	resumes, err := h.store.LoadResumes(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("load resumes failed", slog.Any("error", err))
		Internal(c, "failed to load resumes")
		return
	}

	resumeID := c.Param("id")
	found := false
	var jobTitle string
	for i := range resumes {
		if resumes[i].ID == resumeID {
			found = true
			jobTitle = resumes[i].Content.JobTitle
			break
		}
	}
	if !found {
		NotFound(c, "resume not found")
		return
	}

	pageURL := fmt.Sprintf("%s/resume/%s", h.frontendBaseURL, resumeID)
	text := "Check out my resume"
	if jobTitle != "" {
		text = fmt.Sprintf("Check out my %s resume", jobTitle)
	}

	twitter := fmt.Sprintf(
		"https://twitter.com/intent/tweet?url=%s&text=%s",
		url.QueryEscape(pageURL),
		url.QueryEscape(text),
	)
	linkedin := fmt.Sprintf(
		"https://www.linkedin.com/sharing/share-offsite/?url=%s",
		url.QueryEscape(pageURL),
	)

	c.JSON(http.StatusOK, gin.H{
		"url":      pageURL,
		"twitter":  twitter,
		"linkedin": linkedin,
	})
}
