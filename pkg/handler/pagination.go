package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// ParsePageQuery 从查询参数中解析分页与排序。
// 前端传 1 起始的 page/size，内部统一折算为偏移量。
func ParsePageQuery(c *gin.Context) model.PageQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	sortBy := c.Query("sortBy")
	sortDir := c.Query("sortDir")
	return model.NewPageQueryFromPage(page, size, sortBy, sortDir)
}
