package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resumaker/internal/resume"
)

// 两个固定键；没有用户维度（单用户模型的已知简化，
// 因此退出登录后简历集合会被下一次登录原样找回）。
const (
	userKey    = "resu_user"
	resumesKey = "resu_resumes"
)

// Store 负责身份快照与简历集合的持久化。
// 它是一个"哑"持久化边界：不校验 4 份的上限，上限由调用方在
// 创建时保证；写入总是整集合替换。
type Store struct {
	kv KV
}

// New 构造 Store。
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// LoadUser 读取身份快照。
// 从未写入返回 (nil, nil)；反序列化失败原样抛给调用方，
// 由调用方按"未登录"处理。
func (s *Store) LoadUser(ctx context.Context) (*resume.User, error) {
	data, err := s.kv.Get(ctx, userKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user resume.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user snapshot: %w", err)
	}
	return &user, nil
}

// SaveUser 覆盖写入身份快照。
func (s *Store) SaveUser(ctx context.Context, user resume.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	return s.kv.Set(ctx, userKey, data)
}

// ClearUser 仅删除身份快照（退出登录）；简历集合保持原样。
func (s *Store) ClearUser(ctx context.Context) error {
	return s.kv.Del(ctx, userKey)
}

// LoadResumes 读取简历集合，保持存储顺序。
// 从未写入返回空切片；损坏的数据同 LoadUser 一样抛错。
func (s *Store) LoadResumes(ctx context.Context) ([]resume.UserResume, error) {
	data, err := s.kv.Get(ctx, resumesKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []resume.UserResume{}, nil
		}
		return nil, err
	}

	var resumes []resume.UserResume
	if err := json.Unmarshal(data, &resumes); err != nil {
		return nil, fmt.Errorf("decode resume collection: %w", err)
	}
	if resumes == nil {
		resumes = []resume.UserResume{}
	}
	return resumes, nil
}

// SaveResumes 整集合替换写入。这是唯一的持久化边界：
// 提交后、写入前崩溃会丢掉这次提交。
func (s *Store) SaveResumes(ctx context.Context, resumes []resume.UserResume) error {
	if resumes == nil {
		resumes = []resume.UserResume{}
	}
	data, err := json.Marshal(resumes)
	if err != nil {
		return fmt.Errorf("encode resume collection: %w", err)
	}
	return s.kv.Set(ctx, resumesKey, data)
}
