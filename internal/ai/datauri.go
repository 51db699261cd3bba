package ai

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// 头像在存储与传输中统一用 data URI 表示（base64 PNG）。

// DecodeDataURI 把 "data:<mime>;base64,<payload>" 拆成字节与 MIME 类型。
// 也接受裸 base64（无前缀），此时 MIME 按 image/png 处理。
func DecodeDataURI(uri string) ([]byte, string, error) {
	payload := uri
	mimeType := "image/png"

	if strings.HasPrefix(uri, "data:") {
		sep := strings.Index(uri, ",")
		if sep < 0 {
			return nil, "", fmt.Errorf("malformed data uri")
		}
		header := uri[len("data:"):sep]
		payload = uri[sep+1:]
		if idx := strings.Index(header, ";"); idx >= 0 {
			if header[:idx] != "" {
				mimeType = header[:idx]
			}
		} else if header != "" {
			mimeType = header
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode image payload: %w", err)
	}
	return data, mimeType, nil
}

// EncodeDataURI 把图像字节编码为 data URI。
func EncodeDataURI(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
