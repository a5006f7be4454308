package parser

import "github.com/microcosm-cc/bluemonday"

var stripTagsPolicy *bluemonday.Policy

func init() {
	// StripTagsPolicy 会移除所有的HTML标签
	stripTagsPolicy = bluemonday.StripTagsPolicy()
}

// StripHTML 接受一个HTML字符串，返回一个去除了所有标签的纯文本字符串。
// 评论内容入库前会经过这一层，防止存储带标签的富文本。
func StripHTML(htmlContent string) string {
	return stripTagsPolicy.Sanitize(htmlContent)
}
