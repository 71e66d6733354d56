package content

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByLCY/newsletter/binding"
	"github.com/ByLCY/newsletter/dsl"
)

// Load 读取 DSL 内容文件并转换为 Newsletter。
// data 非空时对全部文本做 ${path} 插值；图片路径相对于内容文件所在目录。
func Load(path string, data any) (Newsletter, error) {
	f, err := os.Open(path)
	if err != nil {
		return Newsletter{}, fmt.Errorf("打开内容文件失败: %w", err)
	}
	defer f.Close()

	doc, err := dsl.Parse(f)
	if err != nil {
		return Newsletter{}, fmt.Errorf("解析内容文件 %s 失败: %w", path, err)
	}
	return FromDocument(doc, filepath.Dir(path), data)
}

// FromDocument 将已解析的 DSL 文档转换为 Newsletter，图片从 baseDir 读取。
func FromDocument(doc *dsl.Document, baseDir string, data any) (Newsletter, error) {
	interp := func(s string) string { return binding.Interpolate(s, data) }

	n := New()
	n.Title = interp(string(doc.Title))

	articles := doc.Articles()
	if len(articles) > 2 {
		return Newsletter{}, fmt.Errorf("内容文件最多包含 2 篇文章，实际 %d 篇", len(articles))
	}
	for i, a := range articles {
		heading, body := interp(a.Heading.String()), interp(a.Block.Text())
		img, err := readImage(baseDir, a.Block.Image())
		if err != nil {
			return Newsletter{}, fmt.Errorf("article %d: %w", i+1, err)
		}
		if i == 0 {
			if heading != "" {
				n.News1Title = heading
			}
			n.News1Content, n.News1Image = body, img
		} else {
			if heading != "" {
				n.News2Title = heading
			}
			n.News2Content, n.News2Image = body, img
		}
	}

	if office := doc.Office(); office != nil {
		if office.Block.Image() != "" {
			return Newsletter{}, fmt.Errorf("office 段落不支持配图")
		}
		if h := interp(office.Heading.String()); h != "" {
			n.OfficeNewsTitle = h
		}
		n.OfficeNewsContent = interp(office.Block.Text())
	}

	if footer := doc.Footer(); footer != nil {
		lines := footer.Block.Lines()
		if len(lines) > len(n.Footer) {
			return Newsletter{}, fmt.Errorf("页脚最多 %d 行，实际 %d 行", len(n.Footer), len(lines))
		}
		// 页脚保留 ${title}，由 ToLayout 在规范化标题后替换
		for i, line := range lines {
			n.Footer[i] = binding.Interpolate(line, withoutTitle(data))
		}
	}
	return n, nil
}

func readImage(baseDir, ref string) (*Upload, error) {
	if ref == "" {
		return nil, nil
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, ref)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片失败: %w", err)
	}
	return &Upload{Name: filepath.Base(ref), Data: data}, nil
}

// withoutTitle 去掉顶层 title 键，使页脚中的 ${title} 始终指向新闻稿标题。
func withoutTitle(data any) any {
	m, ok := data.(map[string]any)
	if !ok {
		return data
	}
	if _, has := m["title"]; !has {
		return data
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k != "title" {
			out[k] = v
		}
	}
	return out
}
