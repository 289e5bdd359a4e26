package util

import (
	"errors"
	"net/http"
	"strings"
)

// ValidateMimeType 按内容检测 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "text/"、"application/json"
func ValidateMimeType(data []byte, allowedTypes []string) (string, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType := http.DetectContentType(head)

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}
