package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resumaker/internal/api/middleware"
	"resumaker/internal/auth"
	"resumaker/internal/resume"
	"resumaker/internal/store"
)

// AuthHandler 处理模拟登录、退出与当前身份查询。
// 没有口令校验：任何合法邮箱都能登录，姓名取邮箱 @ 前缀。
type AuthHandler struct {
	store       *store.Store
	authService *auth.AuthService
	logger      *slog.Logger
}

// NewAuthHandler 构造认证处理器。
func NewAuthHandler(st *store.Store, authService *auth.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		store:       st,
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
	// 口令只收不验，演示登录模型。
	Password string `json:"password"`
	Name     string `json:"name"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        resume.User `json:"user"`
}

// Login 接受邮箱，写入身份快照并签发令牌。
// 同一邮箱重复登录复用已存身份，避免 id 漂移。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("email", req.Email))

	user, err := h.store.LoadUser(ctx)
	if err != nil {
		// 损坏的身份快照按未登录处理，重新生成。
		logger.Warn("stored user snapshot unreadable, regenerating", slog.Any("error", err))
		user = nil
	}

	if user == nil || user.Email != req.Email {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = req.Email
			if at := strings.Index(req.Email, "@"); at > 0 {
				name = req.Email[:at]
			}
		}
		user = &resume.User{
			ID:    uuid.NewString(),
			Email: req.Email,
			Name:  name,
		}
	}

	if err := h.store.SaveUser(ctx, *user); err != nil {
		logger.Error("save user snapshot failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	token, err := h.authService.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		logger.Error("sign token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	logger.Info("user logged in", slog.String("user_id", user.ID))
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.authService.TokenTTL().Seconds()),
		User:        *user,
	})
}

// Logout 仅清除身份快照；简历集合保持原样，下次登录原样找回。
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	if err := h.store.ClearUser(ctx); err != nil {
		logger.Error("clear user snapshot failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	logger.Info("user logged out")
	c.Status(http.StatusNoContent)
}

// Me 返回存储的身份快照。
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.store.LoadUser(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Warn("load user snapshot failed", slog.Any("error", err))
		Unauthorized(c)
		return
	}
	if user == nil {
		Unauthorized(c)
		return
	}
	c.JSON(http.StatusOK, user)
}
