package content

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/ByLCY/newsletter/layout"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatalf("编码测试图片失败: %v", err)
	}
	return buf.Bytes()
}

func filled() Newsletter {
	n := New()
	n.News1Content = "first"
	n.News2Content = "second"
	n.OfficeNewsContent = "office"
	return n
}

func TestNewDefaults(t *testing.T) {
	n := New()
	if n.Title != "Bästerås Weekly" || n.News1Title != "News1" || n.News2Title != "News2" || n.OfficeNewsTitle != "Office News" {
		t.Fatalf("默认值错误: %+v", n)
	}
}

func TestValidateMissingContent(t *testing.T) {
	for _, mutate := range []func(*Newsletter){
		func(n *Newsletter) { n.News1Content = "" },
		func(n *Newsletter) { n.News2Content = "   " },
		func(n *Newsletter) { n.OfficeNewsContent = "" },
	} {
		n := filled()
		mutate(&n)
		if err := n.Validate(); !errors.Is(err, ErrMissingContent) {
			t.Fatalf("期望 ErrMissingContent，实际 %v", err)
		}
	}
	if err := filled().Validate(); err != nil {
		t.Fatalf("完整内容不应报错: %v", err)
	}
}

func TestValidateImages(t *testing.T) {
	n := filled()
	n.News1Image = &Upload{Name: "photo.png", Data: pngBytes(t)}
	if err := n.Validate(); err != nil {
		t.Fatalf("PNG 应通过校验: %v", err)
	}
	n.News2Image = &Upload{Name: "notes.png", Data: []byte("just some text")}
	if err := n.Validate(); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("文本文件应返回 ErrInvalidImage，实际 %v", err)
	}
}

func TestNormalize(t *testing.T) {
	n := filled()
	n.Title = "  Bästerås Weekly "
	n.News1Title = ""
	got := n.Normalize()
	if got.Title != "Bästerås Weekly" {
		t.Fatalf("标题应规范化为 NFC 并去除空白，实际 %q", got.Title)
	}
	if got.News1Title != DefaultNews1Title {
		t.Fatalf("空标题应回退为默认值，实际 %q", got.News1Title)
	}
}

func TestToLayout(t *testing.T) {
	n := filled()
	n.News2Image = &Upload{Name: "b.png", Data: pngBytes(t)}
	logo := layout.ImageSource{Name: "logo.png", Data: pngBytes(t)}
	c := n.ToLayout(logo)

	if c.Footer[0] != "Thanks for reading this week's edition of Bästerås Weekly." {
		t.Fatalf("页脚首行错误: %q", c.Footer[0])
	}
	if c.Footer[1] != FooterTemplates[1] {
		t.Fatalf("页脚第二行错误: %q", c.Footer[1])
	}
	if c.Article1.Image != nil || c.Article2.Image == nil || c.Article2.Image.Name != "b.png" {
		t.Fatalf("配图映射错误: %+v %+v", c.Article1.Image, c.Article2.Image)
	}
	if c.Office.Body != "office" || c.Logo.Name != "logo.png" {
		t.Fatalf("内容映射错误: %+v", c)
	}

	n.Footer[1] = "Written for ${title}"
	if got := n.ToLayout(logo).Footer[1]; got != "Written for Bästerås Weekly" {
		t.Fatalf("自定义页脚未生效: %q", got)
	}
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := Filename("Bästerås  Weekly", now); got != "Bästerås_Weekly_1700000000123.pdf" {
		t.Fatalf("文件名错误: %q", got)
	}
}

func layoutLogo(t *testing.T) layout.ImageSource {
	return layout.ImageSource{Name: "logo.png", Data: pngBytes(t)}
}
