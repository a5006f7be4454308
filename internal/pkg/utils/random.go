package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateRandomString 生成一个 length 字节的随机十六进制字符串，
// 用于在首次启动时自动生成 JWT 签名密钥。
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("生成随机字符串失败: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
