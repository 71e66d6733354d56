// Package typeset 生成新闻稿的 LaTeX 源码并交给远程编译服务输出 PDF。
package typeset

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ByLCY/newsletter/binding"
	"github.com/ByLCY/newsletter/content"
	"github.com/ByLCY/newsletter/layout"
)

// Section 是一个带标题的正文块。
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Document 是远程排版请求体，字段与前端提交的 JSON 一致。
type Document struct {
	Title      string  `json:"title"`
	News1      Section `json:"news1"`
	News2      Section `json:"news2"`
	OfficeNews Section `json:"officeNews"`
}

// FromNewsletter 由表单数据构造 Document；远程排版不包含图片。
func FromNewsletter(n content.Newsletter) Document {
	return Document{
		Title:      n.Title,
		News1:      Section{Title: n.News1Title, Content: n.News1Content},
		News2:      Section{Title: n.News2Title, Content: n.News2Content},
		OfficeNews: Section{Title: n.OfficeNewsTitle, Content: n.OfficeNewsContent},
	}
}

// Newsletter 转换为表单数据，便于复用 content 包的校验与规范化。
func (d Document) Newsletter() content.Newsletter {
	return content.Newsletter{
		Title:             d.Title,
		News1Title:        d.News1.Title,
		News1Content:      d.News1.Content,
		News2Title:        d.News2.Title,
		News2Content:      d.News2.Content,
		OfficeNewsTitle:   d.OfficeNews.Title,
		OfficeNewsContent: d.OfficeNews.Content,
	}
}

//go:embed newsletter.tex.tmpl
var sourceTemplate string

var texTemplate = template.Must(template.New("newsletter.tex").
	Delims("<<", ">>").
	Funcs(template.FuncMap{
		"tex":   Escape,
		"title": accentTitle,
		"rgb":   func(c layout.Color) string { return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B) },
	}).
	Parse(sourceTemplate))

type templateData struct {
	Title    string
	Sections []Section
	Footer   [2]string
	Palette  layout.Palette
}

// Source 渲染 LaTeX 源码。用户文本均经过转义，标题最后一个词使用强调色。
func Source(doc Document) (string, error) {
	vars := map[string]any{"title": doc.Title}
	data := templateData{
		Title:    doc.Title,
		Sections: []Section{doc.News1, doc.News2, doc.OfficeNews},
		Palette:  layout.DefaultPalette(),
	}
	for i, tpl := range content.FooterTemplates {
		data.Footer[i] = binding.Interpolate(tpl, vars)
	}

	var buf bytes.Buffer
	if err := texTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染 LaTeX 模板失败: %w", err)
	}
	return buf.String(), nil
}

var texEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape 转义 LaTeX 特殊字符。
func Escape(s string) string {
	return texEscaper.Replace(s)
}

// accentTitle 与 PDF 版式一致：按空格拆分，最后一个词着强调色。
func accentTitle(title string) string {
	parts := strings.Split(title, " ")
	last := len(parts) - 1
	if parts[last] != "" {
		parts[last] = `\textcolor{AccentOrange}{` + Escape(parts[last]) + `}`
	}
	for i := 0; i < last; i++ {
		parts[i] = Escape(parts[i])
	}
	return strings.Join(parts, " ")
}
