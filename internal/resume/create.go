package resume

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxResumesPerUser 是集合上限：最多同时存在 4 份简历。
const MaxResumesPerUser = 4

// ErrLimitReached 表示集合已满，创建被拒绝且集合不变。
var ErrLimitReached = errors.New("resume limit reached")

// New 依据选中的模板创建一份新简历。
// 前置条件：len(existing) < MaxResumesPerUser，否则返回 ErrLimitReached，
// 不分配任何资源。新简历以默认内容与默认配色填充（按值拷贝），
// ID 取自 UUID 空间，CreatedAt 取当前时间。
func New(templateID int, existing []UserResume) (UserResume, error) {
	if len(existing) >= MaxResumesPerUser {
		return UserResume{}, ErrLimitReached
	}

	return UserResume{
		ID:         uuid.NewString(),
		TemplateID: templateID,
		Content:    DefaultContent(),
		Colors:     DefaultColors(),
		CreatedAt:  time.Now().UTC(),
	}, nil
}
