// Package content 定义编辑表单提交的新闻稿内容，负责校验、规范化并转换为排版输入。
package content

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/newsletter/binding"
	"github.com/ByLCY/newsletter/layout"
)

// 表单默认值。
const (
	DefaultTitle       = "Bästerås Weekly"
	DefaultNews1Title  = "News1"
	DefaultNews2Title  = "News2"
	DefaultOfficeTitle = "Office News"
)

// 页脚模板，${title} 由 binding 替换。
var FooterTemplates = [2]string{
	"Thanks for reading this week's edition of ${title}.",
	"If you have feedback, suggestions, or interesting topics, feel free to reach out.",
}

var (
	// ErrMissingContent 表示正文字段未填写。
	ErrMissingContent = errors.New("content: please fill in all content fields")
	// ErrInvalidImage 表示上传的文件不是图片。
	ErrInvalidImage = errors.New("content: please upload an image file")
)

// Upload 是一张上传的图片。
type Upload struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// Newsletter 是一期新闻稿的表单数据。
type Newsletter struct {
	Title             string    `json:"title"`
	News1Title        string    `json:"news1Title"`
	News1Content      string    `json:"news1Content"`
	News1Image        *Upload   `json:"news1Image,omitempty"`
	News2Title        string    `json:"news2Title"`
	News2Content      string    `json:"news2Content"`
	News2Image        *Upload   `json:"news2Image,omitempty"`
	OfficeNewsTitle   string    `json:"officeNewsTitle"`
	OfficeNewsContent string    `json:"officeNewsContent"`
	Footer            [2]string `json:"footer,omitempty"` // 覆盖页脚模板，空行使用默认模板
}

// New 返回带默认标题的空表单。
func New() Newsletter {
	return Newsletter{
		Title:           DefaultTitle,
		News1Title:      DefaultNews1Title,
		News2Title:      DefaultNews2Title,
		OfficeNewsTitle: DefaultOfficeTitle,
	}
}

// Validate 检查三段正文均已填写、上传文件均为图片。
func (n Newsletter) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"news1Content", n.News1Content},
		{"news2Content", n.News2Content},
		{"officeNewsContent", n.OfficeNewsContent},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingContent, f.name)
		}
	}
	for _, up := range []*Upload{n.News1Image, n.News2Image} {
		if err := CheckImage(up); err != nil {
			return err
		}
	}
	return nil
}

// CheckImage 通过内容嗅探确认上传文件为 image/*；nil 表示未上传。
func CheckImage(up *Upload) error {
	if up == nil {
		return nil
	}
	mt := mimetype.Detect(up.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Errorf("%w: %s (%s)", ErrInvalidImage, up.Name, mt.String())
	}
	return nil
}

// Normalize 对所有文本做 NFC 规范化，标题类字段去除首尾空白，空标题回退为默认值。
func (n Newsletter) Normalize() Newsletter {
	heading := func(s, fallback string) string {
		s = strings.TrimSpace(norm.NFC.String(s))
		if s == "" {
			return fallback
		}
		return s
	}
	n.Title = heading(n.Title, DefaultTitle)
	n.News1Title = heading(n.News1Title, DefaultNews1Title)
	n.News2Title = heading(n.News2Title, DefaultNews2Title)
	n.OfficeNewsTitle = heading(n.OfficeNewsTitle, DefaultOfficeTitle)
	n.News1Content = norm.NFC.String(n.News1Content)
	n.News2Content = norm.NFC.String(n.News2Content)
	n.OfficeNewsContent = norm.NFC.String(n.OfficeNewsContent)
	for i := range n.Footer {
		n.Footer[i] = norm.NFC.String(n.Footer[i])
	}
	return n
}

// ToLayout 转换为排版输入。页脚模板中的 ${title} 替换为新闻稿标题。
func (n Newsletter) ToLayout(logo layout.ImageSource) layout.Content {
	vars := map[string]any{"title": n.Title}
	var footer [2]string
	for i, tpl := range FooterTemplates {
		if n.Footer[i] != "" {
			tpl = n.Footer[i]
		}
		footer[i] = binding.Interpolate(tpl, vars)
	}
	return layout.Content{
		Title:    n.Title,
		Article1: layout.Article{Heading: n.News1Title, Body: n.News1Content, Image: imageSource(n.News1Image)},
		Article2: layout.Article{Heading: n.News2Title, Body: n.News2Content, Image: imageSource(n.News2Image)},
		Office:   layout.Office{Heading: n.OfficeNewsTitle, Body: n.OfficeNewsContent},
		Logo:     logo,
		Footer:   footer,
	}
}

func imageSource(up *Upload) *layout.ImageSource {
	if up == nil {
		return nil
	}
	return &layout.ImageSource{Name: up.Name, Data: up.Data}
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename 返回下载文件名：标题中的空白替换为下划线，再附加毫秒时间戳。
func Filename(title string, now time.Time) string {
	return whitespace.ReplaceAllString(title, "_") + "_" + strconv.FormatInt(now.UnixMilli(), 10) + ".pdf"
}
