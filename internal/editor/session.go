package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"resumaker/internal/ai"
	"resumaker/internal/metrics"
	"resumaker/internal/resume"
	"resumaker/internal/store"
)

// Session 管理单份简历的编辑生命周期。
// 所有修改都发生在会话私有的工作副本上，不保存关闭即不留痕迹。
// 单用户单窗口模型：同一时间只有一份简历处于编辑态。
type Session struct {
	mu       sync.Mutex
	store    *store.Store
	enhancer ai.Enhancer
	logger   *slog.Logger

	// onAIResult 在 AI 调用落定后被回调（锁外执行），供上层发通知。
	onAIResult func(AIResult)

	editing   bool
	gen       uint64 // 每次 Open 自增，用于丢弃过期的 AI 回调
	aiPending bool

	resumeID   string
	templateID int
	createdAt  time.Time
	content    resume.Content
	colors     resume.Colors
}

// AIAction 标识两种增强操作之一。
type AIAction string

const (
	AIActionImageEdit AIAction = "image_edit"
	AIActionSummary   AIAction = "summary"
)

// AIResult 描述一次落定的 AI 调用：是否真正写入了工作副本。
type AIResult struct {
	Action   AIAction `json:"action"`
	ResumeID string   `json:"resume_id"`
	Applied  bool     `json:"applied"`
}

// State 是工作副本的只读快照，供展示层轮询。
type State struct {
	Editing    bool           `json:"editing"`
	ResumeID   string         `json:"resume_id,omitempty"`
	TemplateID int            `json:"template_id,omitempty"`
	AIPending  bool           `json:"ai_pending"`
	Content    resume.Content `json:"content,omitzero"`
	Colors     resume.Colors  `json:"colors,omitzero"`
}

var (
	// ErrNotEditing 表示当前没有打开的简历。
	ErrNotEditing = errors.New("no resume open for editing")
	// ErrAlreadyEditing 表示已有简历处于编辑态，需要先保存或关闭。
	ErrAlreadyEditing = errors.New("another resume is already open")
	// ErrAIBusy 表示上一个 AI 请求尚未落定，新的请求被拒绝。
	ErrAIBusy = errors.New("an ai request is already pending")
	// ErrNoProfileImage 表示工作副本没有可编辑的头像。
	ErrNoProfileImage = errors.New("working copy has no profile image")
	// ErrUnknownField 表示字段名不在文档模型里。
	ErrUnknownField = errors.New("unknown field")
)

// NewSession 构造编辑会话。enhancer 可以为 nil（AI 功能未配置）。
func NewSession(st *store.Store, enhancer ai.Enhancer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:    st,
		enhancer: enhancer,
		logger:   logger,
	}
}

// SetAIResultHook 注册 AI 调用落定后的回调（在锁外执行）。
func (s *Session) SetAIResultHook(fn func(AIResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAIResult = fn
}

// Open 把一份简历的内容与配色拷入工作副本，进入编辑态。
// 已处于编辑态时拒绝，调用方需先 Save 或 Close。
func (s *Session) Open(r resume.UserResume) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing {
		return ErrAlreadyEditing
	}

	s.editing = true
	s.gen++
	s.aiPending = false
	s.resumeID = r.ID
	s.templateID = r.TemplateID
	s.createdAt = r.CreatedAt
	s.content = r.Content.Clone()
	s.colors = r.Colors
	return nil
}

// Editing 报告会话是否处于编辑态。
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// AIPending 报告是否有 AI 请求在途（忙碌指示）。
func (s *Session) AIPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiPending
}

// Snapshot 返回当前工作副本的快照。
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing {
		return State{}
	}
	return State{
		Editing:    true,
		ResumeID:   s.resumeID,
		TemplateID: s.templateID,
		AIPending:  s.aiPending,
		Content:    s.content.Clone(),
		Colors:     s.colors,
	}
}

// SetContentField 原子替换工作副本中的一个内容字段，字段名即 JSON 键。
// 除类型检查外不做任何校验；多次调用按最后写入生效。
func (s *Session) SetContentField(field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing {
		return ErrNotEditing
	}

	switch field {
	case "firstName":
		return assignString(&s.content.FirstName, field, value)
	case "lastName":
		return assignString(&s.content.LastName, field, value)
	case "jobTitle":
		return assignString(&s.content.JobTitle, field, value)
	case "email":
		return assignString(&s.content.Email, field, value)
	case "phone":
		return assignString(&s.content.Phone, field, value)
	case "address":
		return assignString(&s.content.Address, field, value)
	case "summary":
		return assignString(&s.content.Summary, field, value)
	case "profileImage":
		return assignString(&s.content.ProfileImage, field, value)
	case "skills":
		return coerce(&s.content.Skills, field, value)
	case "experience":
		return coerce(&s.content.Experience, field, value)
	case "education":
		return coerce(&s.content.Education, field, value)
	default:
		return fmt.Errorf("%w: content.%s", ErrUnknownField, field)
	}
}

// SetColorField 原子替换一个配色槽位。
func (s *Session) SetColorField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing {
		return ErrNotEditing
	}

	switch field {
	case "primary":
		s.colors.Primary = value
	case "secondary":
		s.colors.Secondary = value
	case "text":
		s.colors.Text = value
	case "background":
		s.colors.Background = value
	default:
		return fmt.Errorf("%w: colors.%s", ErrUnknownField, field)
	}
	return nil
}

// Save 把工作副本合并回集合中 id 相同的那份简历并整体落盘，回到空闲态。
// id、templateId、createdAt 一律保留存储中的原值。
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing {
		return ErrNotEditing
	}

	resumes, err := s.store.LoadResumes(ctx)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}

	found := false
	for i := range resumes {
		if resumes[i].ID == s.resumeID {
			resumes[i].Content = s.content.Clone()
			resumes[i].Colors = s.colors
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("resume %s not in stored collection", s.resumeID)
	}

	if err := s.store.SaveResumes(ctx, resumes); err != nil {
		return fmt.Errorf("persist collection: %w", err)
	}

	s.reset()
	return nil
}

// Close 丢弃工作副本，持久化集合不受影响。
// 在途的 AI 调用无法中止，但其结果会因代际检查被忽略。
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing {
		return
	}
	s.reset()
}

func (s *Session) reset() {
	s.editing = false
	s.gen++
	s.aiPending = false
	s.resumeID = ""
	s.templateID = 0
	s.createdAt = time.Time{}
	s.content = resume.Content{}
	s.colors = resume.Colors{}
}

// RequestImageEdit 发起异步头像编辑。请求在途期间两个 AI 动作都被挡住；
// 成功后结果写入工作副本的 profileImage，失败则静默不更新。
func (s *Session) RequestImageEdit(ctx context.Context, instruction string) error {
	s.mu.Lock()

	if !s.editing {
		s.mu.Unlock()
		return ErrNotEditing
	}
	if s.aiPending {
		s.mu.Unlock()
		return ErrAIBusy
	}
	if s.enhancer == nil {
		s.mu.Unlock()
		return fmt.Errorf("ai enhancer is not configured")
	}
	if instruction == "" {
		s.mu.Unlock()
		return fmt.Errorf("instruction is required")
	}
	if s.content.ProfileImage == "" {
		s.mu.Unlock()
		return ErrNoProfileImage
	}

	s.aiPending = true
	gen := s.gen
	image := s.content.ProfileImage
	s.mu.Unlock()

	// 请求寿命不跟随发起方的 ctx（HTTP 请求返回 202 后仍在途）。
	callCtx := context.WithoutCancel(ctx)
	go func() {
		result, err := s.enhancer.EditImage(callCtx, image, instruction)
		s.settleAI(gen, AIActionImageEdit, result, err)
	}()
	return nil
}

// RequestSummary 发起异步摘要生成，语义同 RequestImageEdit，
// 成功后结果写入 summary。
func (s *Session) RequestSummary(ctx context.Context) error {
	s.mu.Lock()

	if !s.editing {
		s.mu.Unlock()
		return ErrNotEditing
	}
	if s.aiPending {
		s.mu.Unlock()
		return ErrAIBusy
	}
	if s.enhancer == nil {
		s.mu.Unlock()
		return fmt.Errorf("ai enhancer is not configured")
	}

	s.aiPending = true
	gen := s.gen
	content := s.content.Clone()
	s.mu.Unlock()

	callCtx := context.WithoutCancel(ctx)
	go func() {
		result, err := s.enhancer.SuggestSummary(callCtx, content)
		s.settleAI(gen, AIActionSummary, result, err)
	}()
	return nil
}

// settleAI 在 AI 调用返回后应用（或丢弃）结果。
// 代际不匹配说明会话已经关闭或换了简历，结果必须被忽略。
func (s *Session) settleAI(gen uint64, action AIAction, value string, err error) {
	s.mu.Lock()

	if s.gen != gen {
		s.mu.Unlock()
		s.logger.Info("discarding stale ai result", slog.String("action", string(action)))
		metrics.ObserveAIRequest(string(action), "discarded")
		return
	}

	s.aiPending = false
	applied := false
	if err == nil && value != "" {
		switch action {
		case AIActionImageEdit:
			s.content.ProfileImage = value
		case AIActionSummary:
			s.content.Summary = value
		}
		applied = true
	}

	if applied {
		metrics.ObserveAIRequest(string(action), "applied")
	} else {
		metrics.ObserveAIRequest(string(action), "failed")
	}

	resumeID := s.resumeID
	hook := s.onAIResult
	s.mu.Unlock()

	if err != nil {
		// 网络、配额、空响应……统一按"没有结果"处理，不打断编辑。
		s.logger.Info("ai enhancement returned no result",
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}

	if hook != nil {
		hook(AIResult{Action: action, ResumeID: resumeID, Applied: applied})
	}
}

// MarshalJSON 让快照在序列化时省略空闲态的内容块。
func (st State) MarshalJSON() ([]byte, error) {
	type alias State
	if !st.Editing {
		return json.Marshal(struct {
			Editing   bool `json:"editing"`
			AIPending bool `json:"ai_pending"`
		}{})
	}
	return json.Marshal(alias(st))
}

func assignString(dst *string, field string, value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %s expects a string, got %T", field, value)
	}
	*dst = str
	return nil
}

// coerce 通过 JSON 往返把任意传入值装进目标切片类型，
// 同时覆盖类型化调用与 HTTP 层解码出的 []any。
func coerce(dst any, field string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("field %s: %w", field, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %s expects a different shape: %w", field, err)
	}
	return nil
}
