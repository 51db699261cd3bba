package ai

import (
	"context"
	"errors"

	"resumaker/internal/resume"
)

// Enhancer 是外部生成式服务的窄契约：两个单发的请求/响应操作。
// 任何失败（网络、配额、响应里没有可用载荷）都折叠为一个错误，
// 调用方统一按"没有结果"处理，不区分原因。
type Enhancer interface {
	// EditImage 按自然语言指令修改头像，返回替换用的 PNG data URI。
	EditImage(ctx context.Context, imageDataURI, instruction string) (string, error)
	// SuggestSummary 依据完整简历内容生成一段职业摘要。
	SuggestSummary(ctx context.Context, content resume.Content) (string, error)
}

// ErrNoResult 表示服务答复里没有可用的载荷。
var ErrNoResult = errors.New("enhancer returned no usable result")
