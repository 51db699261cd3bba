package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumaker/internal/resume"
	"resumaker/internal/store"
)

// fakeEnhancer 返回预置结果，release 非空时会阻塞到通道被关闭。
type fakeEnhancer struct {
	image   string
	summary string
	err     error
	release chan struct{}
}

func (f *fakeEnhancer) EditImage(ctx context.Context, imageDataURI, instruction string) (string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.image, f.err
}

func (f *fakeEnhancer) SuggestSummary(ctx context.Context, content resume.Content) (string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.summary, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	kv, err := store.NewGormKV(db)
	if err != nil {
		t.Fatalf("初始化 KV 失败: %v", err)
	}
	return store.New(kv)
}

func seedResume(t *testing.T, st *store.Store) resume.UserResume {
	t.Helper()
	r, err := resume.New(3, nil)
	if err != nil {
		t.Fatalf("创建简历失败: %v", err)
	}
	if err := st.SaveResumes(context.Background(), []resume.UserResume{r}); err != nil {
		t.Fatalf("写入集合失败: %v", err)
	}
	return r
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("等待条件超时")
}

func TestSession_OpenTwiceRejected(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	s := NewSession(st, nil, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("首次打开失败: %v", err)
	}
	if err := s.Open(r); !errors.Is(err, ErrAlreadyEditing) {
		t.Fatalf("重复打开应返回 ErrAlreadyEditing, got %v", err)
	}
}

func TestSession_CloseDiscardsChanges(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	s := NewSession(st, nil, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	if err := s.SetContentField("summary", "草稿内容"); err != nil {
		t.Fatalf("修改字段失败: %v", err)
	}
	s.Close()

	stored, err := st.LoadResumes(context.Background())
	if err != nil {
		t.Fatalf("读取集合失败: %v", err)
	}
	if stored[0].Content.Summary != r.Content.Summary {
		t.Fatalf("关闭不保存却改变了持久化内容: %q", stored[0].Content.Summary)
	}
	if s.Editing() {
		t.Fatalf("关闭后仍处于编辑态")
	}
}

func TestSession_SavePersistsAndPreservesIdentity(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	s := NewSession(st, nil, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	if err := s.SetContentField("firstName", "Ada"); err != nil {
		t.Fatalf("修改 firstName 失败: %v", err)
	}
	if err := s.SetContentField("skills", []string{"Go", "SQL"}); err != nil {
		t.Fatalf("修改 skills 失败: %v", err)
	}
	if err := s.SetColorField("primary", "#ff0000"); err != nil {
		t.Fatalf("修改配色失败: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	stored, err := st.LoadResumes(context.Background())
	if err != nil {
		t.Fatalf("读取集合失败: %v", err)
	}
	got := stored[0]
	if got.ID != r.ID || got.TemplateID != r.TemplateID || !got.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("保存改变了身份字段: %+v", got)
	}
	if got.Content.FirstName != "Ada" {
		t.Fatalf("firstName = %q, want Ada", got.Content.FirstName)
	}
	if len(got.Content.Skills) != 2 || got.Content.Skills[0] != "Go" {
		t.Fatalf("skills 未持久化: %v", got.Content.Skills)
	}
	if got.Colors.Primary != "#ff0000" {
		t.Fatalf("配色未持久化: %v", got.Colors)
	}
	if s.Editing() {
		t.Fatalf("保存后应回到空闲态")
	}
}

func TestSession_SetFieldCoercesDecodedJSON(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	s := NewSession(st, nil, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}

	// HTTP 层解码出的形态：[]any 与 map[string]any。
	if err := s.SetContentField("skills", []any{"Go", "Redis"}); err != nil {
		t.Fatalf("skills 转换失败: %v", err)
	}
	exp := []any{map[string]any{
		"company": "Acme", "role": "Engineer", "period": "2024", "description": "things",
	}}
	if err := s.SetContentField("experience", exp); err != nil {
		t.Fatalf("experience 转换失败: %v", err)
	}

	snap := s.Snapshot()
	if snap.Content.Experience[0].Company != "Acme" {
		t.Fatalf("experience 未写入: %+v", snap.Content.Experience)
	}
}

func TestSession_SetFieldRejectsUnknownAndWrongType(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	s := NewSession(st, nil, slog.Default())

	if err := s.SetContentField("summary", "x"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("空闲态修改应返回 ErrNotEditing, got %v", err)
	}
	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	if err := s.SetContentField("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("未知字段应返回 ErrUnknownField, got %v", err)
	}
	if err := s.SetContentField("firstName", 42); err == nil {
		t.Fatalf("类型错误应报错")
	}
	if err := s.SetColorField("tertiary", "#000"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("未知配色槽位应返回 ErrUnknownField, got %v", err)
	}
}

func TestSession_AIPendingBlocksBothActions(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	fake := &fakeEnhancer{image: "data:image/png;base64,bmV3", release: make(chan struct{})}
	s := NewSession(st, fake, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	if err := s.RequestImageEdit(context.Background(), "make it pop"); err != nil {
		t.Fatalf("发起图像编辑失败: %v", err)
	}
	if err := s.RequestImageEdit(context.Background(), "again"); !errors.Is(err, ErrAIBusy) {
		t.Fatalf("在途期间应返回 ErrAIBusy, got %v", err)
	}
	if err := s.RequestSummary(context.Background()); !errors.Is(err, ErrAIBusy) {
		t.Fatalf("两个动作共用同一忙碌标志, got %v", err)
	}

	close(fake.release)
	waitFor(t, func() bool { return !s.AIPending() })

	snap := s.Snapshot()
	if snap.Content.ProfileImage != fake.image {
		t.Fatalf("结果未写入工作副本: %q", snap.Content.ProfileImage)
	}
	if err := s.RequestSummary(context.Background()); err != nil {
		t.Fatalf("落定后应可再次发起: %v", err)
	}
	waitFor(t, func() bool { return !s.AIPending() })
}

func TestSession_AIFailureIsSilent(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	fake := &fakeEnhancer{err: errors.New("quota exceeded")}
	s := NewSession(st, fake, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	before := s.Snapshot().Content.ProfileImage
	if err := s.RequestImageEdit(context.Background(), "retouch"); err != nil {
		t.Fatalf("发起请求失败: %v", err)
	}
	waitFor(t, func() bool { return !s.AIPending() })

	if got := s.Snapshot().Content.ProfileImage; got != before {
		t.Fatalf("失败调用不应更新工作副本: %q", got)
	}
	if !s.Editing() {
		t.Fatalf("失败后应留在编辑态")
	}
}

func TestSession_StaleAIResultDiscarded(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	fake := &fakeEnhancer{image: "data:image/png;base64,b2xk", release: make(chan struct{})}
	s := NewSession(st, fake, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	if err := s.RequestImageEdit(context.Background(), "sharpen"); err != nil {
		t.Fatalf("发起请求失败: %v", err)
	}

	// 请求还在途时关闭会话再重新打开：旧结果属于上一代，必须被丢弃。
	s.Close()
	if err := s.Open(r); err != nil {
		t.Fatalf("重新打开失败: %v", err)
	}
	close(fake.release)

	time.Sleep(50 * time.Millisecond)
	snap := s.Snapshot()
	if snap.Content.ProfileImage != r.Content.ProfileImage {
		t.Fatalf("过期结果污染了新会话: %q", snap.Content.ProfileImage)
	}
	if snap.AIPending {
		t.Fatalf("新会话不应继承旧请求的忙碌标志")
	}
}

func TestSession_ImageEditRequiresProfileImage(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	s := NewSession(st, &fakeEnhancer{}, slog.Default())

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	if err := s.SetContentField("profileImage", ""); err != nil {
		t.Fatalf("清空头像失败: %v", err)
	}
	if err := s.RequestImageEdit(context.Background(), "crop"); !errors.Is(err, ErrNoProfileImage) {
		t.Fatalf("无头像应返回 ErrNoProfileImage, got %v", err)
	}
}

func TestSession_AIResultHookFires(t *testing.T) {
	st := newTestStore(t)
	r := seedResume(t, st)
	fake := &fakeEnhancer{summary: "Two crisp sentences."}
	s := NewSession(st, fake, slog.Default())

	results := make(chan AIResult, 1)
	s.SetAIResultHook(func(res AIResult) { results <- res })

	if err := s.Open(r); err != nil {
		t.Fatalf("打开失败: %v", err)
	}
	if err := s.RequestSummary(context.Background()); err != nil {
		t.Fatalf("发起摘要失败: %v", err)
	}

	select {
	case res := <-results:
		if !res.Applied || res.Action != AIActionSummary || res.ResumeID != r.ID {
			t.Fatalf("回调内容不对: %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("回调未触发")
	}
	if got := s.Snapshot().Content.Summary; got != fake.summary {
		t.Fatalf("摘要未写入: %q", got)
	}
}
