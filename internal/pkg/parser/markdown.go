package parser

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var mdParser goldmark.Markdown
var policy *bluemonday.Policy

func init() {
	// 初始化 Goldmark 解析器，并启用常用扩展
	mdParser = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // 支持 GitHub Flavored Markdown
			extension.Footnote, // 支持脚注
			extension.Linkify,  // 自动识别链接
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // 自动为标题生成 ID
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(), // 信任所有原始 HTML，后续由 bluemonday 清理
		),
	)

	// UGCPolicy 适用于用户生成的内容
	policy = bluemonday.UGCPolicy()
	// 允许代码高亮需要的 class 属性
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")
	// 允许标题的 id 属性，用于锚点链接
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
}

// MarkdownToHTML 将 Markdown 字符串转换为安全的 HTML 字符串
func MarkdownToHTML(mdContent string) (string, error) {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(mdContent), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}
