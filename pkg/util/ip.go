package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// 按可信度排序的代理/CDN 头部，逗号分隔时取第一个 IP
var clientIPHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"CF-Connecting-IP",
	"True-Client-IP",
}

// GetRealClientIP 获取客户端真实 IP，依次检查常见代理头部，
// 都取不到合法 IP 时回退到 gin 内置的 ClientIP。
func GetRealClientIP(c *gin.Context) string {
	for _, header := range clientIPHeaders {
		value := c.GetHeader(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For 格式：client, proxy1, proxy2
		first := strings.TrimSpace(strings.Split(value, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	return c.ClientIP()
}

// IsPrivateIP 判断是否为私有或回环地址
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate() || parsed.IsLoopback()
}
