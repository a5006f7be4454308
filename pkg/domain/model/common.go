package model

// --- 统一分页值对象 ---

// 排序方向
const (
	SortDirAsc  = "asc"
	SortDirDesc = "desc"
)

// PageQuery 是所有分页查询的统一入参：基于偏移量，而不是页码。
// Handler 层负责把 page/size 风格的查询参数折算成 Offset/Limit。
type PageQuery struct {
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir"`
}

// PageResult 是所有分页查询的统一出参。
type PageResult struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// NewPageQueryFromPage 将 1 起始的页码和每页大小折算为偏移量查询。
// 省略（为 0）的页码和大小回退到默认值；负数不做纠正，
// 折算出的非法 Offset/Limit 由 service 层校验拒绝。
func NewPageQueryFromPage(page, size int, sortBy, sortDir string) PageQuery {
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = 10
	}
	offset := (page - 1) * size
	// 页码和大小同为负数时乘积为正，需保留非法信号
	if page < 0 {
		offset = -1
	}
	return PageQuery{
		Offset:  offset,
		Limit:   size,
		SortBy:  sortBy,
		SortDir: sortDir,
	}
}
