package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resumaker/internal/resume"
)

// 默认模型与原始产品一致，可通过配置覆盖。
const (
	DefaultImageModel   = "gemini-2.5-flash-image"
	DefaultSummaryModel = "gemini-3-flash-preview"
)

// GeminiEnhancer 通过 Google GenAI SDK 实现 Enhancer。
type GeminiEnhancer struct {
	client       *genai.Client
	imageModel   string
	summaryModel string
}

// NewGeminiEnhancer 构造 Gemini 客户端。模型名为空时使用默认值。
func NewGeminiEnhancer(ctx context.Context, apiKey, imageModel, summaryModel string) (*GeminiEnhancer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	if summaryModel == "" {
		summaryModel = DefaultSummaryModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiEnhancer{
		client:       client,
		imageModel:   imageModel,
		summaryModel: summaryModel,
	}, nil
}

// EditImage 把现有头像和编辑指令一起发给图像模型，
// 从候选里取第一个内联图像作为结果。
func (e *GeminiEnhancer) EditImage(ctx context.Context, imageDataURI, instruction string) (string, error) {
	imageBytes, mimeType, err := DecodeDataURI(imageDataURI)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Edit this profile picture according to this instruction: %s. Return the modified image.", instruction)
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(imageBytes, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.imageModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate image edit: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return EncodeDataURI(part.InlineData.Data, "image/png"), nil
			}
		}
	}
	return "", ErrNoResult
}

// SuggestSummary 把序列化后的简历内容交给文本模型，要求两句话的职业摘要。
func (e *GeminiEnhancer) SuggestSummary(ctx context.Context, content resume.Content) (string, error) {
	serialized, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("encode resume content: %w", err)
	}

	prompt := fmt.Sprintf("Based on this professional info: %s, write a compelling 2-sentence resume summary.", serialized)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.summaryModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrNoResult
	}
	return text, nil
}
