package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，由响应层转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrConflict 表示资源冲突（名称、用户名、邮箱等已被占用），由响应层转换为 409
	ErrConflict = errors.New("资源冲突")

	// ErrBadRequest 表示请求参数错误，由响应层转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrInternalServer 表示服务器内部错误，由响应层转换为 500
	ErrInternalServer = errors.New("内部服务器错误")

	// ErrUnauthorized 表示未授权，由响应层转换为 401
	ErrUnauthorized = errors.New("未经授权的访问")

	// ErrForbidden 表示无权访问，由响应层转换为 403
	ErrForbidden = errors.New("操作禁止")

	// ErrInvalidToken 表示无效的令牌，由响应层转换为 401
	ErrInvalidToken = errors.New("无效令牌")

	// ErrInvalidPublicID 表示无效的公共ID，由响应层转换为 400
	ErrInvalidPublicID = errors.New("无效的公共ID")

	// ErrCategoryInUse 表示分类仍被文章引用，无法删除，由响应层转换为 409
	ErrCategoryInUse = errors.New("分类正在被文章使用，无法删除")
)
