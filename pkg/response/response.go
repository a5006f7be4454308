package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/constant"
)

// Response 是统一的API返回结构体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// SuccessWithStatus 成功响应，但允许自定义 HTTP 状态码。
// 这对于返回 201 Created 等状态非常有用。
func SuccessWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Error 是传输层唯一的错误翻译出口：根据 service 层返回的标准错误链，
// 统一映射为对应的 HTTP 状态码和响应体。未识别的错误一律记录日志并
// 作为 500 返回，对外只暴露通用描述。
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constant.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, constant.ErrConflict), errors.Is(err, constant.ErrCategoryInUse):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, constant.ErrBadRequest), errors.Is(err, constant.ErrInvalidPublicID):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, constant.ErrUnauthorized), errors.Is(err, constant.ErrInvalidToken):
		Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, constant.ErrForbidden):
		Fail(c, http.StatusForbidden, err.Error())
	default:
		log.Printf("[response] 未预期的内部错误: %v", err)
		Fail(c, http.StatusInternalServerError, constant.ErrInternalServer.Error())
	}
}
